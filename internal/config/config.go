// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"unmute-go/internal/gateway"
)

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or API_KEY) is required unless USE_MOCK_LLM=true")

type Config struct {
	Port        string
	Environment string
	APIKey      string
	UseMockLLM  bool
	Gateway     gateway.Options

	SeedPath      string
	SessionSecret string
	SessionTTL    time.Duration
}

// Load reads .env files (missing files are fine) and then the environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() (Config, error) {
	def := gateway.DefaultOptions()
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		Environment:   envOr("ENVIRONMENT", "local"),
		APIKey:        envOr("GEMINI_API_KEY", os.Getenv("API_KEY")),
		UseMockLLM:    os.Getenv("USE_MOCK_LLM") == "true",
		SeedPath:      os.Getenv("SEED_PATH"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Gateway: gateway.Options{
			Models: gateway.Models{
				Categorize: envOr("MODEL_CATEGORIZE", def.Models.Categorize),
				Transcribe: envOr("MODEL_TRANSCRIBE", def.Models.Transcribe),
				Analyze:    envOr("MODEL_ANALYZE", def.Models.Analyze),
				Chat:       envOr("MODEL_CHAT", def.Models.Chat),
				Search:     envOr("MODEL_SEARCH", def.Models.Search),
				Speech:     envOr("MODEL_SPEECH", def.Models.Speech),
			},
			Voice: envOr("TTS_VOICE", def.Voice),
		},
	}

	budget, err := strconv.ParseInt(envOr("THINKING_BUDGET", strconv.Itoa(int(def.ThinkingBudget))), 10, 32)
	if err != nil {
		return Config{}, fmt.Errorf("THINKING_BUDGET: %w", err)
	}
	cfg.Gateway.ThinkingBudget = int32(budget)

	retries, err := strconv.ParseUint(envOr("AI_RETRY_MAX", strconv.FormatUint(def.MaxRetries, 10)), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("AI_RETRY_MAX: %w", err)
	}
	cfg.Gateway.MaxRetries = retries

	if cfg.Gateway.MaxRetryElapsed, err = durationOr("AI_RETRY_MAX_ELAPSED", def.MaxRetryElapsed); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationOr("SESSION_TTL", 12*time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.APIKey == "" && !cfg.UseMockLLM {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationOr(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
