package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/metrics"
)

// SlidingWindow admits at most maxRequests operations in any trailing window.
// One instance is shared by every platform extractor and by the HTTP layer, so
// all state access is serialized by the mutex.
type SlidingWindow struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	admitted    []time.Time
	now         func() time.Time
}

func NewSlidingWindow(maxRequests int, window time.Duration) *SlidingWindow {
	if maxRequests <= 0 {
		maxRequests = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &SlidingWindow{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Allow purges admissions older than the window and admits the caller if
// capacity remains, recording the admission timestamp.
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.purge(now)

	if len(sw.admitted) < sw.maxRequests {
		sw.admitted = append(sw.admitted, now)
		return true
	}
	return false
}

// WaitTime reports how long until the oldest admission leaves the window.
// Zero when nothing has been admitted.
func (sw *SlidingWindow) WaitTime() time.Duration {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.purge(now)

	if len(sw.admitted) == 0 {
		return 0
	}
	remaining := sw.window - now.Sub(sw.admitted[0])
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (sw *SlidingWindow) purge(now time.Time) {
	cutoff := 0
	for cutoff < len(sw.admitted) && now.Sub(sw.admitted[cutoff]) >= sw.window {
		cutoff++
	}
	if cutoff > 0 {
		sw.admitted = append(sw.admitted[:0], sw.admitted[cutoff:]...)
	}
}

// Middleware rejects requests with 429 and a retry_after hint instead of
// blocking, leaving retry to the caller.
func Middleware(sw *SlidingWindow, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sw.Allow() {
			wait := sw.WaitTime()
			metrics.RateLimited.Inc()
			log.Warn("Rate limit exceeded",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
				zap.Duration("retry_after", wait),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Rate limit exceeded",
				"retry_after": int(math.Ceil(wait.Seconds())),
			})
		}
		return c.Next()
	}
}
