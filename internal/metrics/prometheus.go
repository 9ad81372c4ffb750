package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_analyses_total",
			Help: "Total analyses processed",
		},
		[]string{"status"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reviewlens_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	ReviewsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_reviews_extracted_total",
			Help: "Reviews extracted per platform",
		},
		[]string{"platform"},
	)

	ExtractionDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_extraction_degraded_total",
			Help: "Extractions that fell back to synthetic data",
		},
		[]string{"platform"},
	)

	ReviewsFiltered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewlens_reviews_filtered_total",
			Help: "Reviews rejected by the noise filter",
		},
		[]string{"reason"},
	)

	CompatibilityScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reviewlens_compatibility_score",
			Help:    "Distribution of compatibility scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_hits_total",
			Help: "Analysis cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reviewlens_cache_misses_total",
			Help: "Analysis cache misses",
		},
	)
)

func Init() {
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ReviewsExtracted)
	prometheus.MustRegister(ExtractionDegraded)
	prometheus.MustRegister(ReviewsFiltered)
	prometheus.MustRegister(CompatibilityScore)
	prometheus.MustRegister(RateLimited)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
