package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/analysis"
	"github.com/reviewlens/backend/internal/cache/redis"
	"github.com/reviewlens/backend/internal/metrics"
	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/internal/storage/sqlite"
	"github.com/reviewlens/backend/pkg/logger"
	"github.com/reviewlens/backend/pkg/utils"
)

// AnalyzeHandler fronts the analysis pipeline. The cache is optional; when it
// is nil every request runs the pipeline.
type AnalyzeHandler struct {
	analyzer *analysis.Analyzer
	cache    *redis.Client
	history  *sqlite.Client
}

func NewAnalyzeHandler(analyzer *analysis.Analyzer, cache *redis.Client, history *sqlite.Client) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		cache:    cache,
		history:  history,
	}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req analysis.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cacheKey := requestHash(req)
	if h.cache != nil {
		cached, hit, err := h.cache.GetAnalysis(c.Context(), cacheKey)
		if err != nil {
			logger.Warn("Cache lookup failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.Inc()
			return c.JSON(cached)
		}
		metrics.CacheMisses.Inc()
	}

	start := time.Now()
	result, err := h.analyzer.Analyze(c.Context(), req)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": verr.Error(),
				"field": verr.Field,
			})
		}
		logger.Error("Analysis failed", zap.Error(err))
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze title",
		})
	}
	elapsed := time.Since(start)

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.Observe(elapsed.Seconds())

	if h.history != nil {
		record := &models.AnalysisRecord{
			ID:                 result.AnalysisID,
			Title:              result.Title,
			MediaType:          req.MediaType,
			Recommendation:     result.Recommendation,
			CompatibilityScore: result.CompatibilityScore,
			ReviewsExtracted:   result.ReviewsExtracted,
			ReviewsFiltered:    result.ReviewsExtracted - result.ReviewsAnalyzed,
			Degraded:           len(result.DegradedSources) > 0,
			LatencyMS:          int(elapsed.Milliseconds()),
			CreatedAt:          result.Timestamp,
		}
		if err := h.history.InsertAnalysisRecord(record); err != nil {
			logger.Warn("Failed to record analysis history", zap.Error(err))
		}
	}

	if h.cache != nil {
		if err := h.cache.SetAnalysis(c.Context(), cacheKey, result); err != nil {
			logger.Warn("Failed to cache analysis", zap.Error(err))
		}
	}

	return c.JSON(result)
}

func (h *AnalyzeHandler) GetAnalysisHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return c.JSON(fiber.Map{"analyses": []interface{}{}})
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be an integer between 1 and 100",
			})
		}
		limit = parsed
	}

	records, err := h.history.GetRecentAnalyses(limit)
	if err != nil {
		logger.Error("Failed to load analysis history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analysis history",
		})
	}

	analyses := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		analyses = append(analyses, fiber.Map{
			"id":                  r.ID,
			"title":               r.Title,
			"media_type":          r.MediaType,
			"recommendation":      r.Recommendation,
			"compatibility_score": r.CompatibilityScore,
			"reviews_extracted":   r.ReviewsExtracted,
			"reviews_filtered":    r.ReviewsFiltered,
			"degraded":            r.Degraded,
			"latency_ms":          r.LatencyMS,
			"created_at":          r.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"analyses": analyses})
}

// requestHash keys the cache on everything that changes the outcome of an
// analysis for the same title.
func requestHash(req analysis.AnalyzeRequest) string {
	name := req.Name
	if name == "" {
		name = req.Title
	}
	parts := []string{
		strings.ToLower(name),
		req.MediaType,
		req.IMDbURL,
		req.SteamURL,
		req.MetacriticURL,
	}
	return utils.HashString(strings.Join(parts, "|"))
}
