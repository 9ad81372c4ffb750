package extract

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

const (
	PlatformIMDb       = "imdb"
	PlatformSteam      = "steam"
	PlatformMetacritic = "metacritic"
)

// MockReviewCount is how many synthetic reviews stand in for a failed
// extraction.
const MockReviewCount = 10

// Result carries one platform's reviews. Degraded marks synthetic data
// substituted after a fetch, parse, or throttling failure; the reviews then
// carry a "<platform>_mock" source tag as well.
type Result struct {
	Reviews  []models.Review
	Degraded bool
}

// Extractor extracts up to maxReviews reviews for one platform. Extract never
// fails outward: any extraction problem yields a degraded Result instead.
type Extractor interface {
	Platform() string
	Extract(ctx context.Context, url string) Result
}

func degraded(reviews []models.Review) Result {
	return Result{Reviews: reviews, Degraded: true}
}

func mockReviews(platform string, texts []string) []models.Review {
	reviews := make([]models.Review, 0, MockReviewCount)
	for i := 0; i < MockReviewCount; i++ {
		text := texts[i%len(texts)]
		rating := mockRating(platform)
		reviews = append(reviews, models.Review{
			ID:     fmt.Sprintf("%s_mock_%d", platform, i),
			Text:   fmt.Sprintf("%s (sample %d)", text, i),
			Rating: &rating,
			Source: platform + "_mock",
		})
	}
	return reviews
}

func mockRating(platform string) int {
	switch platform {
	case PlatformSteam:
		return rand.Intn(2)
	case PlatformMetacritic:
		return 5 + rand.Intn(6)
	default:
		return 6 + rand.Intn(5)
	}
}

func logDegradation(platform, url string, err error) {
	logger.Warn("Extraction degraded, substituting synthetic reviews",
		zap.String("platform", platform),
		zap.String("url", url),
		zap.Error(err),
	)
}
