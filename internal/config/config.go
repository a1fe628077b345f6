// Package config provides configuration management for the expense bot.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Organizze OrganizzeConfig
	Gemini    GeminiConfig
	AudioDir  string
}

// OrganizzeConfig holds credentials and endpoint for the Organizze REST API.
type OrganizzeConfig struct {
	BaseURL string
	Email   string
	Token   string
}

// GeminiConfig holds the model backend configuration. The extraction and
// transcription models are configured separately so they can diverge.
type GeminiConfig struct {
	APIKey             string
	ExtractionModel    string
	TranscriptionModel string
}

// Load loads configuration from environment variables.
// It automatically loads a .env file from the current directory if available.
// A custom .env file path can optionally be specified.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	cfg := &Config{
		Organizze: OrganizzeConfig{
			BaseURL: getEnvOrDefault("ORGANIZZE_API_BASE", "https://api.organizze.com.br/rest/v2"),
			Email:   os.Getenv("ORGANIZZE_EMAIL"),
			Token:   os.Getenv("ORGANIZZE_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey:             os.Getenv("GEMINI_API_KEY"),
			ExtractionModel:    getEnvOrDefault("EXTRACTION_MODEL", "gemini-2.5-flash"),
			TranscriptionModel: getEnvOrDefault("TRANSCRIPTION_MODEL", "gemini-2.5-flash"),
		},
		AudioDir: getEnvOrDefault("AUDIO_DIR", "data/audios"),
	}

	return cfg, nil
}

// Validate checks that all required fields are set. It reports every missing
// key at once so a misconfigured deployment fails with a complete message.
func (c *Config) Validate() error {
	var missing []string

	if c.Organizze.Email == "" {
		missing = append(missing, "ORGANIZZE_EMAIL")
	}
	if c.Organizze.Token == "" {
		missing = append(missing, "ORGANIZZE_TOKEN")
	}
	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
