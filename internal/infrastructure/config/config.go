package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	OTLP     OTLPConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Path string
	Seed bool
}

type StorageConfig struct {
	// Root is the public-readable directory image keys resolve under.
	Root string
}

type AuthConfig struct {
	JWTSecret string
	// TokenTTL is the lifetime of minted access tokens.
	TokenTTL time.Duration
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
	// Enabled switches between real OTLP export and no-op providers.
	Enabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "data/catalog.db"),
			Seed: getEnvBool("DATABASE_SEED", false),
		},
		Storage: StorageConfig{
			Root: getEnv("STORAGE_ROOT", "storage/public"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTL:  time.Duration(getEnvInt("JWT_TTL_MINUTES", 60)) * time.Minute,
		},
		OTLP: OTLPConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "mg-gourmet-api"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
			Enabled:     getEnvBool("OTEL_EXPORT_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
