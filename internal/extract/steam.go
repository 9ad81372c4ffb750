package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

var (
	steamAppIDPattern = regexp.MustCompile(`/app/(\d+)`)

	steamMockTexts = []string{
		"Tight controls and a satisfying loop, lost a whole weekend to it.",
		"Runs rough on older hardware but the core gameplay holds up.",
		"Great mechanics let down by a thin story, still recommended.",
	}
)

// SteamExtractor pulls reviews from Steam's public appreviews endpoint rather
// than scraping the store page. Ratings are binary: 1 voted up, 0 voted down.
type SteamExtractor struct {
	fetcher    *Fetcher
	maxReviews int
	apiBase    string
}

func NewSteamExtractor(fetcher *Fetcher, maxReviews int) *SteamExtractor {
	if maxReviews <= 0 {
		maxReviews = 20
	}
	return &SteamExtractor{
		fetcher:    fetcher,
		maxReviews: maxReviews,
		apiBase:    "https://store.steampowered.com",
	}
}

func (e *SteamExtractor) Platform() string { return PlatformSteam }

func (e *SteamExtractor) Extract(ctx context.Context, url string) Result {
	appID, err := parseSteamAppID(url)
	if err != nil {
		logDegradation(PlatformSteam, url, err)
		return degraded(mockReviews(PlatformSteam, steamMockTexts))
	}

	apiURL := fmt.Sprintf(
		"%s/appreviews/%s?json=1&filter=recent&language=english&num_per_page=%d",
		e.apiBase, appID, e.maxReviews,
	)

	body, err := e.fetcher.Get(ctx, PlatformSteam, apiURL)
	if err != nil {
		logDegradation(PlatformSteam, url, err)
		return degraded(mockReviews(PlatformSteam, steamMockTexts))
	}

	reviews, err := parseSteamReviews(body, e.maxReviews)
	if err != nil || len(reviews) == 0 {
		if err == nil {
			err = fmt.Errorf("no reviews in API response")
		}
		logDegradation(PlatformSteam, url, err)
		return degraded(mockReviews(PlatformSteam, steamMockTexts))
	}

	logger.Info("Extracted Steam reviews", zap.Int("count", len(reviews)), zap.String("app_id", appID))
	return Result{Reviews: reviews}
}

func parseSteamAppID(url string) (string, error) {
	m := steamAppIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("could not extract Steam app ID from %q", url)
	}
	return m[1], nil
}

func parseSteamReviews(body []byte, max int) ([]models.Review, error) {
	var resp struct {
		Success int `json:"success"`
		Reviews []struct {
			Review  string `json:"review"`
			VotedUp bool   `json:"voted_up"`
		} `json:"reviews"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}
	if resp.Success != 1 {
		return nil, fmt.Errorf("API reported failure")
	}

	var reviews []models.Review
	for i, r := range resp.Reviews {
		if i >= max {
			break
		}
		if r.Review == "" {
			continue
		}
		rating := 0
		if r.VotedUp {
			rating = 1
		}
		reviews = append(reviews, models.Review{
			ID:     fmt.Sprintf("steam_%d", i),
			Text:   r.Review,
			Rating: &rating,
			Source: PlatformSteam,
		})
	}
	return reviews, nil
}
