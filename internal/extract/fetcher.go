package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/reviewlens/backend/internal/ratelimit"
	"github.com/reviewlens/backend/pkg/circuitbreaker"
	"github.com/reviewlens/backend/pkg/logger"
	"github.com/reviewlens/backend/pkg/retry"
)

var (
	// ErrThrottled is returned when the shared limiter denies admission; the
	// extractor degrades to synthetic data rather than sleeping in-request.
	ErrThrottled = errors.New("extraction rate limit reached")

	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	}
)

// Fetcher is the transport half of extraction, shared by all platform
// extractors. It enforces the sliding-window limiter, retries transient
// failures, and opens a per-platform circuit after repeated ones so a dead
// site degrades fast instead of eating the timeout on every request.
type Fetcher struct {
	client   *http.Client
	limiter  *ratelimit.SlidingWindow
	retryCfg retry.Config

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func NewFetcher(limiter *ratelimit.SlidingWindow, timeout time.Duration, retryAttempts int) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if retryAttempts <= 0 {
		retryAttempts = 2
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		limiter:  limiter,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
		retryCfg: retry.Config{
			MaxAttempts:  retryAttempts,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
			Logger:       logger.GetLogger(),
		},
	}
}

func (f *Fetcher) breaker(platform string) *circuitbreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.breakers[platform]
	if !ok {
		cb = circuitbreaker.NewCircuitBreaker(platform, circuitbreaker.Config{
			FailureThreshold: 3,
			SuccessThreshold: 1,
			Timeout:          2 * time.Minute,
			Logger:           logger.GetLogger(),
		})
		f.breakers[platform] = cb
	}
	return cb
}

// Get fetches url with a randomized client identity. It fails with
// ErrThrottled when the limiter denies admission and with the underlying
// error on transport failure or a non-2xx status.
func (f *Fetcher) Get(ctx context.Context, platform, url string) ([]byte, error) {
	if !f.limiter.Allow() {
		return nil, fmt.Errorf("%w: retry after %s", ErrThrottled, f.limiter.WaitTime().Round(time.Second))
	}

	var body []byte
	err := f.breaker(platform).Execute(ctx, func() error {
		fetched, err := retry.DoWithResult(ctx, f.retryCfg, func() ([]byte, error) {
			return f.fetch(ctx, url)
		})
		if err != nil {
			return err
		}
		body = fetched
		return nil
	})
	return body, err
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
