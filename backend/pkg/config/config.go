package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j (graph catalog store)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Postgres (provenance / business records)
	PostgresDSN string

	// Enrichment LLM
	LLMBaseURL string
	LLMAPIKey  string
	LLMModelID string

	// Maintenance
	MaintenanceBatchSize int     // edges/nodes per batch in consistency and canonicalization passes
	SignalDecayFactor    float64 // confidence decay applied to propagated emotional signals
	VerifiedThreshold    float64 // confidence at or above which base score is promoted to verified

	// Admission
	AdmissionWorkers int // parallel workers for batch admission
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		Neo4jURI:             getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:            getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:        getEnv("NEO4J_PASSWORD", "password"),
		PostgresDSN:          getEnv("POSTGRES_DSN", "host=localhost user=luxatlas password=luxatlas dbname=luxatlas port=5432 sslmode=disable"),
		LLMBaseURL:           getEnv("LLM_BASE_URL", "http://localhost:4000"),
		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMModelID:           getEnv("LLM_MODEL_ID", "gpt-4o-mini"),
		MaintenanceBatchSize: getEnvInt("MAINTENANCE_BATCH_SIZE", 1000),
		SignalDecayFactor:    getEnvFloat("SIGNAL_DECAY_FACTOR", 0.8),
		VerifiedThreshold:    getEnvFloat("VERIFIED_THRESHOLD", 0.99),
		AdmissionWorkers:     getEnvInt("ADMISSION_WORKERS", 8),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.MaintenanceBatchSize < 1 {
		return fmt.Errorf("MAINTENANCE_BATCH_SIZE must be positive")
	}
	if c.SignalDecayFactor <= 0 || c.SignalDecayFactor > 1 {
		return fmt.Errorf("SIGNAL_DECAY_FACTOR must be in (0, 1]")
	}
	if c.VerifiedThreshold < 0 || c.VerifiedThreshold > 1 {
		return fmt.Errorf("VERIFIED_THRESHOLD must be in [0, 1]")
	}
	// Postgres and LLM settings are optional for graph-only deployments
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
