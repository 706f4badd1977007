package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "host=localhost user=postgres password= dbname=blog port=5432 sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "cloudinary", cfg.StorageDriver)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 10*time.Minute, cfg.TagCacheTTL)
	assert.Contains(t, cfg.UploadAllowedTypes, "image/png")
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/blog")
	t.Setenv("MEILISEARCH_HOST", "meili")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("UPLOAD_MAX_BYTES", "2048")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "postgres://u:p@db/blog", cfg.DatabaseURL)
	assert.Equal(t, "http://meili:7700", cfg.MeiliSearchHost)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, int64(2048), cfg.UploadMaxBytes)
}

func TestFromViper_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"TAG_CACHE_TTL":    "soon",
		"SHUTDOWN_TIMEOUT": "-",
		"UPLOAD_MAX_BYTES": "0",
		"STORAGE_DRIVER":   "ftp",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromViper(newViper())
			assert.Error(t, err)
		})
	}
}
