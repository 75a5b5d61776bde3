package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// App
	Port    string
	Env     string
	DataDir string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Azure Speech (optional; audio is disabled when unset)
	AzureSpeechKey    string
	AzureSpeechRegion string

	// Neo4j (optional; graph enrichment is disabled when unset)
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Chat rate limiting
	ChatRatePerMinute float64
	ChatBurst         int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DataDir:           getEnv("DATA_DIR", "data"),
		JWTSecret:         getEnv("JWT_SECRET_KEY", ""),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 24*time.Hour),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4"),
		AzureSpeechKey:    getEnv("AZURE_SPEECH_KEY", ""),
		AzureSpeechRegion: getEnv("AZURE_SPEECH_REGION", ""),
		Neo4jURI:          getEnv("NEO4J_URI", ""),
		Neo4jUser:         getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", ""),
		ChatRatePerMinute: getEnvFloat("CHAT_RATE_PER_MINUTE", 30),
		ChatBurst:         getEnvInt("CHAT_BURST", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.OpenAIModel == "" {
		return fmt.Errorf("OPENAI_MODEL is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	// Azure Speech and Neo4j credentials are optional; the server runs
	// without audio or graph enrichment when they are missing.
	return nil
}

// SpeechConfigured reports whether Azure Speech credentials are present
func (c *Config) SpeechConfigured() bool {
	return c.AzureSpeechKey != "" && c.AzureSpeechRegion != ""
}

// GraphConfigured reports whether Neo4j credentials are present
func (c *Config) GraphConfigured() bool {
	return c.Neo4jURI != ""
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
