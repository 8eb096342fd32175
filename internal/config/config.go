// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bull/invoice-rag/internal/storage"
)

// Embedding provider names selectable via EMBEDDING_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Config is the full configuration surface consumed by the pipelines.
type Config struct {
	QdrantHost string
	QdrantPort int
	RedisAddr  string

	CollectionName string
	Dimension      int
	TopK           int
	CacheTTL       time.Duration

	EmbeddingProvider string
	GenerationModel   string

	DataDir string
	Port    string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset.
func Load() *Config {
	return &Config{
		QdrantHost: getEnv("QDRANT_HOST", "localhost"),
		QdrantPort: getEnvInt("QDRANT_PORT", 6334),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),

		CollectionName: getEnv("COLLECTION_NAME", storage.DefaultCollectionName),
		Dimension:      getEnvInt("EMBEDDING_DIMENSION", storage.DefaultVectorDimension),
		TopK:           getEnvInt("TOP_K", 3),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL", 86400)) * time.Second,

		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", ProviderOpenAI),
		GenerationModel:   getEnv("GENERATION_MODEL", ""),

		DataDir: getEnv("DATA_DIR", "data"),
		Port:    getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
