package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the ATS service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventChannelBase       string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryResumeFolder string
	AggregationCacheTTL    time.Duration
	EvaluationBatchDelay   time.Duration
	DraftTTL               time.Duration
	EvaluationRateMax      int
	EvaluationRateWindow   time.Duration
	OpenAIAPIKey           string
	OpenAIModel            string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ATS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Talent API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "talent/resumes")
	v.SetDefault("aggregation.cache_ttl", "2m")
	v.SetDefault("evaluation.batch_delay", "1s")
	v.SetDefault("draft.ttl", "12h")
	v.SetDefault("evaluation.rate_max", 5)
	v.SetDefault("evaluation.rate_window", "1m")
	v.SetDefault("events.channel_base", "talent:events")

	cacheTTL, err := time.ParseDuration(v.GetString("aggregation.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid aggregation cache ttl: %w", err)
	}

	batchDelay, err := time.ParseDuration(v.GetString("evaluation.batch_delay"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation batch delay: %w", err)
	}

	draftTTL, err := time.ParseDuration(v.GetString("draft.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid draft ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("evaluation.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation rate window: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventChannelBase:       v.GetString("events.channel_base"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryResumeFolder: v.GetString("cloudinary.folder"),
		AggregationCacheTTL:    cacheTTL,
		EvaluationBatchDelay:   batchDelay,
		DraftTTL:               draftTTL,
		EvaluationRateMax:      v.GetInt("evaluation.rate_max"),
		EvaluationRateWindow:   rateWindow,
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		OpenAIModel:            v.GetString("openai_model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.EvaluationRateMax <= 0 {
		cfg.EvaluationRateMax = 5
	}

	return cfg, nil
}
