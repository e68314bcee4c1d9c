package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-level configuration for the service.
type Config struct {
	ProjectID  string
	DatabaseID string

	// Blob storage
	ReportsBucket string

	// Vertex AI
	VertexAIRegion string
	VertexModel    string

	// Email
	ResendAPIKey string
	EmailFrom    string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Missing required variables are an error at startup,
// not at first use.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:      os.Getenv("PROJECT_ID"),
		DatabaseID:     getEnv("DATABASE_ID", ""),
		ReportsBucket:  os.Getenv("REPORTS_BUCKET"),
		VertexAIRegion: getEnv("VERTEX_AI_REGION", "us-central1"),
		VertexModel:    getEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		EmailFrom:      getEnv("EMAIL_FROM", "Spectacles <hello@spectacles.dev>"),
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if cfg.ReportsBucket == "" {
		return nil, fmt.Errorf("REPORTS_BUCKET environment variable must be set")
	}
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
