package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Redis Configuration (summary cache fast path)
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	SummaryCacheTTL int // seconds

	// OpenAI configuration
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIModel           string
	OpenAIEmbeddingsModel string
	OpenAIRequestsPerMin  int
	EmbeddingDimensions   int

	// Search configuration
	SemanticSimilarityThreshold float64
	KeywordWeight               float64
	SemanticWeight              float64
	SearchDefaultLimit          int
	SearchMaxLimit              int

	// Tracing
	OTLPEndpoint   string
	TracingEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/nevis_search"),
		DBName:      getEnv("DB_NAME", "nevis_search"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Redis Configuration
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		SummaryCacheTTL: getEnvInt("SUMMARY_CACHE_TTL", 3600),

		// OpenAI
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingsModel: getEnv("OPENAI_EMBEDDINGS_MODEL", "text-embedding-3-small"),
		OpenAIRequestsPerMin:  getEnvInt("OPENAI_RPM", 500),
		EmbeddingDimensions:   getEnvInt("EMBEDDING_DIM", 1536),

		// Search
		SemanticSimilarityThreshold: getEnvFloat64("SEMANTIC_SIMILARITY_THRESHOLD", 0.15),
		KeywordWeight:               getEnvFloat64("KEYWORD_WEIGHT", 0.4),
		SemanticWeight:              getEnvFloat64("SEMANTIC_WEIGHT", 0.6),
		SearchDefaultLimit:          getEnvInt("SEARCH_DEFAULT_LIMIT", 10),
		SearchMaxLimit:              getEnvInt("SEARCH_MAX_LIMIT", 100),

		// Tracing
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required - set it in .env file")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
