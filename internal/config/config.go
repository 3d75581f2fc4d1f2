// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config is built once in main and handed to the components that need it.
type Config struct {
	App    AppConfig
	LLM    LLMConfig
	Charts ChartsConfig
}

type AppConfig struct {
	Port          int
	Env           string // "development" or "production"
	LogLevel      string
	SessionSecret string
}

type LLMConfig struct {
	Provider string
	Timeout  time.Duration

	GoogleAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

type ChartsConfig struct {
	CacheSize int
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load reads .env files (if present) and then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:          getEnvAsInt("PORT", 8080),
			Env:           getEnv("APP_ENV", "development"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			SessionSecret: getEnv("SESSION_SECRET", ""),
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", ProviderGemini),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			GoogleAPIKey:  getEnv("GOOGLE_API_KEY", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", ""),
			GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Charts: ChartsConfig{
			CacheSize: getEnvAsInt("CHART_CACHE_SIZE", 256),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.App.Port)
	}
	if c.Charts.CacheSize <= 0 {
		return fmt.Errorf("CHART_CACHE_SIZE must be positive, got %d", c.Charts.CacheSize)
	}
	if c.IsProduction() && len(c.App.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
