package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/analysis"
	"github.com/reviewlens/backend/internal/api/handlers"
	"github.com/reviewlens/backend/internal/cache/redis"
	"github.com/reviewlens/backend/internal/extract"
	"github.com/reviewlens/backend/internal/metrics"
	"github.com/reviewlens/backend/internal/middleware/security"
	"github.com/reviewlens/backend/internal/ratelimit"
	"github.com/reviewlens/backend/internal/recommend"
	"github.com/reviewlens/backend/internal/sentiment"
	"github.com/reviewlens/backend/internal/storage/sqlite"
	"github.com/reviewlens/backend/internal/store"
	"github.com/reviewlens/backend/pkg/config"
	appLogger "github.com/reviewlens/backend/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ReviewLens API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, caching disabled", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	prefStore, err := store.NewPreferenceStore(cfg.Preferences.Path)
	if err != nil {
		appLogger.Fatal("Failed to initialize preference store", zap.Error(err))
	}

	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	apiLimiter := ratelimit.NewSlidingWindow(cfg.RateLimit.MaxRequests, window)
	extractionLimiter := ratelimit.NewSlidingWindow(cfg.RateLimit.MaxRequests, window)

	fetcher := extract.NewFetcher(
		extractionLimiter,
		time.Duration(cfg.Extraction.TimeoutSec)*time.Second,
		cfg.Extraction.RetryAttempts,
	)
	extractors := []extract.Extractor{
		extract.NewIMDbExtractor(fetcher, cfg.Extraction.MaxReviews),
		extract.NewSteamExtractor(fetcher, cfg.Extraction.MaxReviews),
		extract.NewMetacriticExtractor(fetcher, cfg.Extraction.MaxReviews),
	}

	var sentimentAnalyzer sentiment.Analyzer
	switch cfg.Sentiment.Provider {
	case "openai":
		sentimentAnalyzer = sentiment.NewOpenAIAnalyzer(cfg.Sentiment.APIKey, cfg.Sentiment.Model)
		appLogger.Info("Using OpenAI sentiment analyzer", zap.String("model", cfg.Sentiment.Model))
	default:
		sentimentAnalyzer = sentiment.NewStubAnalyzer()
		appLogger.Info("Using stub sentiment analyzer")
	}

	engine := recommend.NewEngine(recommend.Thresholds{
		HighlyLikely:   cfg.Thresholds.HighlyLikely,
		WorthTrying:    cfg.Thresholds.WorthTrying,
		ProceedCaution: cfg.Thresholds.ProceedCaution,
	})

	analyzer := analysis.NewAnalyzer(extractors, sentimentAnalyzer, engine, prefStore)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Server.Environment == "development",
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(analyzer, cacheClient, sqliteClient)
	preferencesHandler := handlers.NewPreferencesHandler(prefStore, cacheClient)

	app.Get("/metrics", metrics.MetricsHandler())

	api := app.Group("/api/v1")

	api.Post("/analyze", ratelimit.Middleware(apiLimiter, appLogger.GetLogger()), analyzeHandler.HandleAnalyze)
	api.Get("/analyses", analyzeHandler.GetAnalysisHistory)

	api.Get("/preferences", preferencesHandler.ListPreferences)
	api.Post("/preferences", preferencesHandler.CreatePreference)
	api.Get("/preferences/:id", preferencesHandler.GetPreference)
	api.Put("/preferences/:id", preferencesHandler.UpdatePreference)
	api.Delete("/preferences/:id", preferencesHandler.DeletePreference)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "reviewlens-api",
			"version": version,
			"time":    time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
