package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StorageMemory)
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "test")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "supersecretjwtkey", cfg.JWTSecret)
	assert.False(t, cfg.FirebaseEnabled())
}

func TestLoadRejectsMalformedTokenTTL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StorageMemory)
	t.Setenv("ENV", "test")

	for _, raw := range []string{"3 days", "72", "soon"} {
		t.Setenv("TOKEN_TTL", raw)
		cfg, err := Load()
		require.Error(t, err, raw)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "TOKEN_TTL")
	}

	t.Setenv("TOKEN_TTL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
}

func TestValidate(t *testing.T) {
	base := Config{StorageBackend: StorageDatabase, PostgresConnStr: "postgres://x", MongoURI: "mongodb://x", TokenTTL: time.Hour}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid database", func(c *Config) {}, ""},
		{"missing postgres", func(c *Config) { c.PostgresConnStr = "" }, "POSTGRES_CONN_STR"},
		{"missing mongo", func(c *Config) { c.MongoURI = "" }, "MONGO_URI"},
		{"memory ignores databases", func(c *Config) {
			c.StorageBackend = StorageMemory
			c.PostgresConnStr, c.MongoURI = "", ""
		}, ""},
		{"unknown backend", func(c *Config) { c.StorageBackend = "redis" }, "STORAGE_BACKEND"},
		{"production needs secret", func(c *Config) { c.Env = "production" }, "JWT_SECRET"},
		{"non-positive ttl", func(c *Config) { c.TokenTTL = 0 }, "TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
