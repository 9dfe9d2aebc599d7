// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	// Gemini holds the build-time generation settings. Empty fields fall
	// through the resolver cascade at query time.
	Gemini GeminiConfig
}

// GeminiConfig groups generation endpoint settings.
type GeminiConfig struct {
	APIKey     string
	Model      string
	APIVersion string
	// BaseURL overrides the generation host, mainly for tests.
	BaseURL string
	// RelayURL is where the proxied transport posts when no credential is
	// resolvable. Empty selects the service's own /api/gemini endpoint.
	RelayURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/assistant.db"),
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", ""),
			APIVersion: getEnv("GEMINI_API_VERSION", ""),
			BaseURL:    getEnv("GEMINI_BASE_URL", ""),
			RelayURL:   getEnv("RELAY_URL", ""),
		},
	}

	if cfg.Gemini.RelayURL == "" {
		cfg.Gemini.RelayURL = "http://127.0.0.1:" + cfg.Port + "/api/gemini"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Gemini.RelayURL == "" {
		return fmt.Errorf("RELAY_URL cannot be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
