package sentiment

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

// Analyzer scores review sentiment. Implementations must keep PredictedScore
// an integer in [1,5] and Confidence in [0,1]; OriginalScore passes the
// source-native rating through untouched.
type Analyzer interface {
	AnalyzeBatch(ctx context.Context, reviews []models.Review) ([]models.SentimentRecord, error)
}

// StubAnalyzer is the placeholder model: pseudo-random scores honoring the
// output contract. It stands in until a real model is configured.
type StubAnalyzer struct{}

func NewStubAnalyzer() *StubAnalyzer {
	logger.Info("Sentiment analyzer initialized", zap.String("provider", "stub"))
	return &StubAnalyzer{}
}

func (a *StubAnalyzer) AnalyzeBatch(_ context.Context, reviews []models.Review) ([]models.SentimentRecord, error) {
	records := make([]models.SentimentRecord, 0, len(reviews))
	for _, r := range reviews {
		records = append(records, models.SentimentRecord{
			ReviewID:       r.ID,
			PredictedScore: 1 + rand.Intn(5),
			Confidence:     0.7 + rand.Float64()*0.29,
			OriginalScore:  r.Rating,
		})
	}
	return records, nil
}
