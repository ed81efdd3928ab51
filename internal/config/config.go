package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port         string
	JWTSecret    string
	AuthRequired bool
	Database     DatabaseConfig
	Storage      StorageConfig
	LLM          LLMConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	UploadDir   string
	MaxUploadMB int
}

// LLMConfig holds extraction provider configuration
type LLMConfig struct {
	Provider       string
	GeminiAPIKey   string
	GeminiModel    string
	AnthropicKey   string
	AnthropicModel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	maxUpload, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "20"))
	if err != nil {
		maxUpload = 20
	}

	return &Config{
		Port:         getEnv("PORT", "8000"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AuthRequired: getEnv("AUTH_REQUIRED", "false") == "true",
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "invoiceflow"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Storage: StorageConfig{
			UploadDir:   getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxUploadMB: maxUpload,
		},
		LLM: LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20240620"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
