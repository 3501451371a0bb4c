// ABOUTME: Centralized configuration for the Plant Texts service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the service
type Config struct {
	// Service settings
	DBPath          string
	HTTPAddr        string
	LogLevel        string
	PersonalityFile string

	// OpenAI settings
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	Timeout       time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxTokens     int
	ModelDisabled bool

	// Conversation settings
	HistoryWindow int
	RedisURL      string

	// Evaluation settings
	EvalURL         string
	EvalAPIKey      string
	EvalProjectID   string
	NATSURL         string
	NATSSubject     string
	EvalMaxInFlight int
	EvalTimeout     time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:          getEnv("PLANT_TEXTS_DB", DefaultDBPath()),
		HTTPAddr:        getEnv("PLANT_TEXTS_ADDR", ":8080"),
		LogLevel:        getEnv("PLANT_TEXTS_LOG_LEVEL", "info"),
		PersonalityFile: os.Getenv("PLANT_TEXTS_PERSONALITIES"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		ChatModel:       getEnv("PLANT_TEXTS_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxAttempts:     getEnvInt("OPENAI_MAX_ATTEMPTS", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 500*time.Millisecond),
		MaxTokens:       getEnvInt("OPENAI_MAX_TOKENS", 180),
		ModelDisabled:   getEnvBool("PLANT_TEXTS_MODEL_DISABLED", false),
		HistoryWindow:   getEnvInt("PLANT_TEXTS_HISTORY_WINDOW", 10),
		RedisURL:        os.Getenv("REDIS_URL"),
		EvalURL:         os.Getenv("EVAL_URL"),
		EvalAPIKey:      os.Getenv("EVAL_API_KEY"),
		EvalProjectID:   os.Getenv("EVAL_PROJECT_ID"),
		NATSURL:         os.Getenv("NATS_URL"),
		NATSSubject:     getEnv("NATS_EVAL_SUBJECT", "planttexts.interactions"),
		EvalMaxInFlight: getEnvInt("EVAL_MAX_IN_FLIGHT", 64),
		EvalTimeout:     getEnvDuration("EVAL_TIMEOUT", 5*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("OPENAI_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.MaxTokens < 50 || c.MaxTokens > 400 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be 50-400, got %d", c.MaxTokens)
	}
	if c.HistoryWindow < 1 || c.HistoryWindow > 50 {
		return fmt.Errorf("PLANT_TEXTS_HISTORY_WINDOW must be 1-50, got %d", c.HistoryWindow)
	}
	if c.EvalMaxInFlight < 1 {
		return fmt.Errorf("EVAL_MAX_IN_FLIGHT must be positive, got %d", c.EvalMaxInFlight)
	}
	if c.EvalURL != "" && c.EvalProjectID == "" {
		return fmt.Errorf("EVAL_PROJECT_ID is required when EVAL_URL is set")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("PLANT_TEXTS_LOG_LEVEL: %w", err)
	}
	return nil
}

// ModelEnabled reports whether the language model should be called at all
func (c *Config) ModelEnabled() bool {
	return !c.ModelDisabled && c.OpenAIKey != ""
}

// DefaultDataDir returns the default data directory following the XDG spec
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "plant-texts")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "plant-texts")
}

// DefaultDBPath returns the default database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "plant-texts.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
