package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDatabase = "database"
	StorageMemory   = "memory"
)

type Config struct {
	Port                    string
	Env                     string
	JWTSecret               string
	TokenTTL                time.Duration
	StorageBackend          string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	FirebaseCredentialsPath string
}

// Load reads configuration from the environment, after merging a .env file if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := getEnvDuration("TOKEN_TTL", 72*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		TokenTTL:                ttl,
		StorageBackend:          getEnv("STORAGE_BACKEND", StorageDatabase),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "collexa"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "supersecretjwtkey"
	}
	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageDatabase:
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR is required")
		}
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageDatabase, StorageMemory, c.StorageBackend)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// FirebaseEnabled reports whether Firebase ID token login should be mounted
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsPath != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}
