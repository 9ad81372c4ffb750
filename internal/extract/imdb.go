package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

var imdbMockTexts = []string{
	"A gripping watch with strong performances and steady direction throughout.",
	"Solid storytelling, though a few episodes drag in the middle stretch.",
	"Memorable characters and a finale that mostly sticks the landing.",
}

// IMDbExtractor parses user reviews from an IMDb title's reviews page.
// Ratings are on IMDb's native 1-10 scale and may be absent.
type IMDbExtractor struct {
	fetcher    *Fetcher
	maxReviews int
}

func NewIMDbExtractor(fetcher *Fetcher, maxReviews int) *IMDbExtractor {
	if maxReviews <= 0 {
		maxReviews = 20
	}
	return &IMDbExtractor{fetcher: fetcher, maxReviews: maxReviews}
}

func (e *IMDbExtractor) Platform() string { return PlatformIMDb }

func (e *IMDbExtractor) Extract(ctx context.Context, url string) Result {
	url = normalizeIMDbURL(url)

	body, err := e.fetcher.Get(ctx, PlatformIMDb, url)
	if err != nil {
		logDegradation(PlatformIMDb, url, err)
		return degraded(mockReviews(PlatformIMDb, imdbMockTexts))
	}

	reviews, err := parseIMDbReviews(bytes.NewReader(body), e.maxReviews)
	if err != nil || len(reviews) == 0 {
		if err == nil {
			err = fmt.Errorf("no reviews found in page")
		}
		logDegradation(PlatformIMDb, url, err)
		return degraded(mockReviews(PlatformIMDb, imdbMockTexts))
	}

	logger.Info("Extracted IMDb reviews", zap.Int("count", len(reviews)), zap.String("url", url))
	return Result{Reviews: reviews}
}

// normalizeIMDbURL appends the reviews listing path when absent.
func normalizeIMDbURL(url string) string {
	if strings.Contains(url, "/reviews") {
		return url
	}
	return strings.TrimRight(url, "/") + "/reviews"
}

func parseIMDbReviews(r io.Reader, max int) ([]models.Review, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var reviews []models.Review
	doc.Find("div.review-container").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= max {
			return false
		}

		text := strings.TrimSpace(s.Find("div.text").Text())
		if text == "" {
			return true
		}

		var rating *int
		ratingText := strings.TrimSpace(s.Find("span.rating-other-user-rating span").First().Text())
		if v, err := strconv.Atoi(ratingText); err == nil {
			rating = &v
		}

		reviews = append(reviews, models.Review{
			ID:     fmt.Sprintf("imdb_%d", i),
			Text:   text,
			Rating: rating,
			Source: PlatformIMDb,
		})
		return true
	})

	return reviews, nil
}
