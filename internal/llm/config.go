package llm

import (
	"os"
	"strconv"
)

// Config holds all configuration for the AI provider subsystem.
// Endpoints are overridable for tests.
type Config struct {
	Preference         string // "auto", "gemini", "openrouter"
	GeminiKey          string
	OpenRouterKey      string
	GeminiModel        string
	OpenRouterModel    string // optional; empty walks the fallback list
	GeminiEndpoint     string
	OpenRouterEndpoint string
	TimeoutMs          int
	LogCalls           bool
}

// DefaultConfig returns a Config with production endpoints and the
// default grounded model.
func DefaultConfig() Config {
	return Config{
		Preference:         "auto",
		GeminiModel:        "gemini-2.0-flash",
		GeminiEndpoint:     "https://generativelanguage.googleapis.com/v1beta",
		OpenRouterEndpoint: "https://openrouter.ai/api/v1",
		TimeoutMs:          60000,
	}
}

// LoadConfig reads provider configuration from environment variables,
// falling back to defaults for any unset value. Persisted settings from
// the store are applied by the caller before env overrides.
func LoadConfig() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overlays GYOMUCAL_* environment variables onto cfg. Env vars
// always win over persisted settings.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GYOMUCAL_AI_PROVIDER"); v != "" {
		c.Preference = v
	}
	if v := os.Getenv("GYOMUCAL_GEMINI_API_KEY"); v != "" {
		c.GeminiKey = v
	}
	if v := os.Getenv("GYOMUCAL_OPENROUTER_API_KEY"); v != "" {
		c.OpenRouterKey = v
	}
	if v := os.Getenv("GYOMUCAL_GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("GYOMUCAL_OPENROUTER_MODEL"); v != "" {
		c.OpenRouterModel = v
	}
	if v := os.Getenv("GYOMUCAL_AI_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutMs = n
		}
	}
	if v := os.Getenv("GYOMUCAL_AI_LOG_CALLS"); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
}
