package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTLHours  int
	BcryptCost     int
	MinPasswordLen int
}

type AIConfig struct {
	GeminiApiKey       string
	GeminiModel        string
	EmbeddingProvider  string // "gemini" or "ollama"
	EmbeddingModel     string
	EmbeddingDimension int
	LLMProvider        string // "gemini" or "ollama"
	OllamaBaseURL      string
	SearchTopK         int
}

// Load resolves the full configuration once at startup. Precedence per value:
// first non-empty source wins (env var aliases in order, then the fallback).
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTLHours:  getEnvAsInt("JWT_TOKEN_TTL_HOURS", 24),
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 10),
			MinPasswordLen: 8,
		},
		Ai: AIConfig{
			// A few common names are in circulation for the Gemini key
			GeminiApiKey:       getEnvAny("GEMINI_API_KEY", "GOOGLE_API_KEY", "GENAI_API_KEY"),
			GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 768),
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			SearchTopK:         getEnvAsInt("SEARCH_TOP_K", 3),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAny returns the first non-empty value among the given keys.
func getEnvAny(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
