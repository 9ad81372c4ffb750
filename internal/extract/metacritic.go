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

var metacriticMockTexts = []string{
	"Polished production with an uneven script; worth it for the highs.",
	"Critics undersold this one, the atmosphere carries every scene.",
	"Ambitious but messy, a few standout moments save the whole.",
}

// MetacriticExtractor parses user reviews from a Metacritic user-reviews page.
// Ratings are on Metacritic's native 0-10 scale and may be absent.
type MetacriticExtractor struct {
	fetcher    *Fetcher
	maxReviews int
}

func NewMetacriticExtractor(fetcher *Fetcher, maxReviews int) *MetacriticExtractor {
	if maxReviews <= 0 {
		maxReviews = 20
	}
	return &MetacriticExtractor{fetcher: fetcher, maxReviews: maxReviews}
}

func (e *MetacriticExtractor) Platform() string { return PlatformMetacritic }

func (e *MetacriticExtractor) Extract(ctx context.Context, url string) Result {
	url = normalizeMetacriticURL(url)

	body, err := e.fetcher.Get(ctx, PlatformMetacritic, url)
	if err != nil {
		logDegradation(PlatformMetacritic, url, err)
		return degraded(mockReviews(PlatformMetacritic, metacriticMockTexts))
	}

	reviews, err := parseMetacriticReviews(bytes.NewReader(body), e.maxReviews)
	if err != nil || len(reviews) == 0 {
		if err == nil {
			err = fmt.Errorf("no reviews found in page")
		}
		logDegradation(PlatformMetacritic, url, err)
		return degraded(mockReviews(PlatformMetacritic, metacriticMockTexts))
	}

	logger.Info("Extracted Metacritic reviews", zap.Int("count", len(reviews)), zap.String("url", url))
	return Result{Reviews: reviews}
}

func normalizeMetacriticURL(url string) string {
	if strings.Contains(url, "/user-reviews") {
		return url
	}
	return strings.TrimRight(url, "/") + "/user-reviews"
}

func parseMetacriticReviews(r io.Reader, max int) ([]models.Review, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var reviews []models.Review
	doc.Find("div.review").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= max {
			return false
		}

		text := strings.TrimSpace(s.Find("div.review_body").Text())
		if text == "" {
			text = strings.TrimSpace(s.Find("span.blurb").Text())
		}
		if text == "" {
			return true
		}

		var rating *int
		ratingText := strings.TrimSpace(s.Find("div.review_grade").Text())
		if v, err := strconv.Atoi(ratingText); err == nil {
			rating = &v
		}

		reviews = append(reviews, models.Review{
			ID:     fmt.Sprintf("metacritic_%d", i),
			Text:   text,
			Rating: rating,
			Source: PlatformMetacritic,
		})
		return true
	})

	return reviews, nil
}
