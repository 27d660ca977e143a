package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Breaker  BreakerConfig
	Cache    CacheConfig
	Action   ActionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type ActionConfig struct {
	// WebhookURL receives executed actions. Empty disables action
	// execution; decisions still record the request.
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

type AIConfig struct {
	Provider       string // "gemini" or "ollama"
	GeminiAPIKey   string
	OllamaBaseURL  string
	LLMModel       string // e.g. "gemini-1.5-flash", "llama3"
	EmbeddingModel string // e.g. "text-embedding-004", "nomic-embed-text"
	CallTimeout    time.Duration
}

type BreakerConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
}

type CacheConfig struct {
	SimilarityThreshold float64
	PrefilterLimit      int
	SessionTTL          time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "runtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:       getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:       getEnv("LLM_MODEL", "gemini-1.5-flash"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			CallTimeout:    getEnvAsDuration("LLM_CALL_TIMEOUT", 30*time.Second),
		},
		Breaker: BreakerConfig{
			FailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
			RecoveryTimeout:  getEnvAsDuration("BREAKER_RECOVERY_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			SimilarityThreshold: getEnvAsFloat("SEMANTIC_CACHE_THRESHOLD", 0.85),
			PrefilterLimit:      getEnvAsInt("SEMANTIC_CACHE_PREFILTER_LIMIT", 5),
			SessionTTL:          getEnvAsDuration("SESSION_CACHE_TTL", 30*time.Minute),
		},
		Action: ActionConfig{
			WebhookURL: getEnv("ACTION_WEBHOOK_URL", ""),
			Token:      getEnv("ACTION_WEBHOOK_TOKEN", ""),
			Timeout:    getEnvAsDuration("ACTION_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
