package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	RateLimit   RateLimitConfig
	Extraction  ExtractionConfig
	Thresholds  ThresholdConfig
	Preferences PreferencesConfig
	SQLite      SQLiteConfig
	Redis       RedisConfig
	Sentiment   SentimentConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type RateLimitConfig struct {
	MaxRequests   int
	WindowSeconds int
}

type ExtractionConfig struct {
	TimeoutSec    int
	MaxReviews    int
	MockReviews   int
	RetryAttempts int
}

type ThresholdConfig struct {
	HighlyLikely   float64
	WorthTrying    float64
	ProceedCaution float64
}

type PreferencesConfig struct {
	Path string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTLSec   int
}

type SentimentConfig struct {
	Provider string
	Model    string
	APIKey   string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/reviewlens")

	viper.SetEnvPrefix("REVIEWLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("ratelimit.maxRequests", 100)
	viper.SetDefault("ratelimit.windowSeconds", 60)

	viper.SetDefault("extraction.timeoutSec", 10)
	viper.SetDefault("extraction.maxReviews", 20)
	viper.SetDefault("extraction.mockReviews", 10)
	viper.SetDefault("extraction.retryAttempts", 2)

	viper.SetDefault("thresholds.highlyLikely", 0.8)
	viper.SetDefault("thresholds.worthTrying", 0.6)
	viper.SetDefault("thresholds.proceedCaution", 0.4)

	viper.SetDefault("preferences.path", "./data/preferences.json")

	viper.SetDefault("sqlite.path", "./data/reviewlens.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttlSec", 3600)

	viper.SetDefault("sentiment.provider", "stub")
	viper.SetDefault("sentiment.model", "gpt-4o-mini")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
