package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/extract"
	"github.com/reviewlens/backend/internal/filter"
	"github.com/reviewlens/backend/internal/match"
	"github.com/reviewlens/backend/internal/metrics"
	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/internal/recommend"
	"github.com/reviewlens/backend/internal/sentiment"
	"github.com/reviewlens/backend/internal/themes"
	"github.com/reviewlens/backend/pkg/logger"
)

// PreferenceSource provides the caller's preference history. Snapshots are
// loaded per analysis so a long-lived Analyzer never works from stale state.
type PreferenceSource interface {
	GetAll() ([]models.Preference, error)
}

// Analyzer runs the review-analysis pipeline: extract, filter, sentiment and
// theme scoring, compatibility, recommendation. Only validation failures
// surface to the caller; everything downstream degrades in place.
type Analyzer struct {
	extractors  []extract.Extractor
	sentiment   sentiment.Analyzer
	engine      *recommend.Engine
	preferences PreferenceSource
}

func NewAnalyzer(extractors []extract.Extractor, sentimentAnalyzer sentiment.Analyzer, engine *recommend.Engine, preferences PreferenceSource) *Analyzer {
	return &Analyzer{
		extractors:  extractors,
		sentiment:   sentimentAnalyzer,
		engine:      engine,
		preferences: preferences,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisResult, error) {
	title, err := Validate(req)
	if err != nil {
		return nil, err
	}

	logger.Info("Analyzing title",
		zap.String("title", title.Name),
		zap.String("media_type", string(title.MediaType)),
	)

	reviews, degradedSources := a.extractAll(ctx, title)

	genuine := filter.ApplyWithStats(reviews, func(reason filter.Reason) {
		metrics.ReviewsFiltered.WithLabelValues(string(reason)).Inc()
	})

	sentimentRecords, err := a.sentiment.AnalyzeBatch(ctx, genuine)
	if err != nil {
		// stage failure is absorbed: scoring proceeds with neutral sentiment
		logger.Error("Sentiment analysis failed, continuing with neutral alignment", zap.Error(err))
		sentimentRecords = nil
	}

	themeScores := themes.Extract(genuine)

	preferences, err := a.preferences.GetAll()
	if err != nil {
		logger.Error("Failed to load preferences, scoring without history", zap.Error(err))
		preferences = nil
	}

	scorer := match.NewScorer(preferences)
	score := scorer.Compatibility(themeScores, sentimentRecords, title.MediaType)
	recommendation := a.engine.Classify(score)

	metrics.CompatibilityScore.Observe(score)

	result := &models.AnalysisResult{
		Title:              title.Name,
		Recommendation:     recommendation.Likelihood,
		Reasoning:          recommendation.Reasoning,
		CompatibilityScore: score,
		ThemeAlignment:     themeScores,
		SentimentSummary:   summarizeSentiment(sentimentRecords),
		Summary:            Summarize(genuine, themeScores),
		MatchingTitles:     scorer.MatchingTitles(themeScores),
		DegradedSources:    degradedSources,
		ReviewsExtracted:   len(reviews),
		ReviewsAnalyzed:    len(genuine),
		Confidence:         score,
		AnalysisID:         "analysis_" + uuid.NewString(),
		Timestamp:          time.Now(),
	}

	logger.Info("Analysis complete",
		zap.String("analysis_id", result.AnalysisID),
		zap.String("recommendation", result.Recommendation),
		zap.Float64("score", score),
		zap.Int("reviews_extracted", len(reviews)),
		zap.Int("reviews_kept", len(genuine)),
		zap.Strings("degraded_sources", degradedSources),
	)
	return result, nil
}

// extractAll runs the platform extractors sequentially for every URL the
// request provides, concatenating results in extractor order.
func (a *Analyzer) extractAll(ctx context.Context, title *models.TitleInfo) ([]models.Review, []string) {
	var reviews []models.Review
	var degradedSources []string

	for _, e := range a.extractors {
		url := platformURL(title, e.Platform())
		if url == "" {
			continue
		}

		res := e.Extract(ctx, url)
		reviews = append(reviews, res.Reviews...)
		metrics.ReviewsExtracted.WithLabelValues(e.Platform()).Add(float64(len(res.Reviews)))
		if res.Degraded {
			degradedSources = append(degradedSources, e.Platform())
			metrics.ExtractionDegraded.WithLabelValues(e.Platform()).Inc()
		}
	}
	return reviews, degradedSources
}

func platformURL(title *models.TitleInfo, platform string) string {
	switch platform {
	case extract.PlatformIMDb:
		return title.IMDbURL
	case extract.PlatformSteam:
		return title.SteamURL
	case extract.PlatformMetacritic:
		return title.MetacriticURL
	}
	return ""
}

// summarizeSentiment buckets predicted scores into positive (>=4), neutral
// (3), and negative (<=2) percentages.
func summarizeSentiment(records []models.SentimentRecord) models.SentimentSummary {
	if len(records) == 0 {
		return models.SentimentSummary{}
	}

	var pos, neu, neg int
	for _, r := range records {
		switch {
		case r.PredictedScore >= 4:
			pos++
		case r.PredictedScore == 3:
			neu++
		default:
			neg++
		}
	}

	total := float64(len(records))
	return models.SentimentSummary{
		Positive: float64(pos) / total * 100,
		Neutral:  float64(neu) / total * 100,
		Negative: float64(neg) / total * 100,
	}
}
