// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		LogLevel:        "info",
		Timeout:         30 * time.Second,
		MaxAttempts:     3,
		MaxTokens:       180,
		HistoryWindow:   10,
		EvalMaxInFlight: 64,
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %s, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay)
	}
	if cfg.MaxTokens != 180 {
		t.Errorf("MaxTokens = %d, want 180", cfg.MaxTokens)
	}
	if cfg.HistoryWindow != 10 {
		t.Errorf("HistoryWindow = %d, want 10", cfg.HistoryWindow)
	}
	if cfg.NATSSubject != "planttexts.interactions" {
		t.Errorf("NATSSubject = %s, want planttexts.interactions", cfg.NATSSubject)
	}
	if cfg.EvalMaxInFlight != 64 {
		t.Errorf("EvalMaxInFlight = %d, want 64", cfg.EvalMaxInFlight)
	}
	if cfg.EvalTimeout != 5*time.Second {
		t.Errorf("EvalTimeout = %v, want 5s", cfg.EvalTimeout)
	}
	if !strings.HasSuffix(cfg.DBPath, "plant-texts.db") {
		t.Errorf("DBPath = %s, want suffix plant-texts.db", cfg.DBPath)
	}
	if cfg.ModelEnabled() {
		t.Error("ModelEnabled() = true without an API key, want false")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("PLANT_TEXTS_DB", "/tmp/plants.db")
	os.Setenv("PLANT_TEXTS_ADDR", ":9090")
	os.Setenv("PLANT_TEXTS_LOG_LEVEL", "debug")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("PLANT_TEXTS_OPENAI_MODEL", "gpt-4o")
	os.Setenv("OPENAI_TIMEOUT", "10s")
	os.Setenv("OPENAI_MAX_ATTEMPTS", "5")
	os.Setenv("OPENAI_RETRY_DELAY", "1s")
	os.Setenv("OPENAI_MAX_TOKENS", "150")
	os.Setenv("PLANT_TEXTS_HISTORY_WINDOW", "6")
	os.Setenv("REDIS_URL", "redis://localhost:6379/0")
	os.Setenv("EVAL_URL", "https://eval.example.com")
	os.Setenv("EVAL_PROJECT_ID", "proj_1")
	os.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "/tmp/plants.db" {
		t.Errorf("DBPath = %s, want /tmp/plants.db", cfg.DBPath)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %s, want :9090", cfg.HTTPAddr)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %s, want gpt-4o", cfg.ChatModel)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", cfg.RetryDelay)
	}
	if cfg.MaxTokens != 150 {
		t.Errorf("MaxTokens = %d, want 150", cfg.MaxTokens)
	}
	if cfg.HistoryWindow != 6 {
		t.Errorf("HistoryWindow = %d, want 6", cfg.HistoryWindow)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %s", cfg.RedisURL)
	}
	if cfg.EvalProjectID != "proj_1" {
		t.Errorf("EvalProjectID = %s, want proj_1", cfg.EvalProjectID)
	}
	if !cfg.ModelEnabled() {
		t.Error("ModelEnabled() = false with an API key, want true")
	}
}

func TestLoad_ModelDisabled(t *testing.T) {
	os.Clearenv()
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("PLANT_TEXTS_MODEL_DISABLED", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ModelEnabled() {
		t.Error("ModelEnabled() = true while disabled, want false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"too many attempts", func(c *Config) { c.MaxAttempts = 11 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"tiny max tokens", func(c *Config) { c.MaxTokens = 10 }},
		{"huge max tokens", func(c *Config) { c.MaxTokens = 1000 }},
		{"zero history window", func(c *Config) { c.HistoryWindow = 0 }},
		{"huge history window", func(c *Config) { c.HistoryWindow = 51 }},
		{"zero in flight", func(c *Config) { c.EvalMaxInFlight = 0 }},
		{"eval url without project", func(c *Config) { c.EvalURL = "https://eval.example.com" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on valid config failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestDefaultDataDir_RespectsXDG(t *testing.T) {
	os.Clearenv()
	os.Setenv("XDG_DATA_HOME", "/data")

	if got, want := DefaultDataDir(), filepath.Join("/data", "plant-texts"); got != want {
		t.Errorf("DefaultDataDir() = %s, want %s", got, want)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
