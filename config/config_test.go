package config

import (
	"errors"
	"testing"
	"time"

	apperrors "sjsage522/gowhere/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, ":5000", config.HTTPAddr)
	assert.Equal(t, "dataset.json", config.DatasetPath)
	assert.Equal(t, DefaultSourceURL, config.SourceURL)
	assert.Equal(t, 5, config.MaxRegionAttempts)
	assert.Equal(t, 3, config.PickMin)
	assert.Equal(t, 7, config.PickMax)
	assert.Equal(t, time.Duration(0), config.RefreshInterval)
	assert.Equal(t, "", config.MemcacheAddr)
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DATASET_PATH", "data/malls.yaml")
	t.Setenv("MAX_REGION_ATTEMPTS", "9")
	t.Setenv("PICK_MIN", "1")
	t.Setenv("PICK_MAX", "2")
	t.Setenv("REFRESH_INTERVAL_MINUTES", "30")
	t.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	t.Setenv("REDIS_ADDR", "redis.example.com:6379")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("GOWHERE_ENVIRONMENT", "production")

	config = LoadConfig()
	assert.Equal(t, ":8080", config.HTTPAddr)
	assert.Equal(t, "data/malls.yaml", config.DatasetPath)
	assert.Equal(t, 9, config.MaxRegionAttempts)
	assert.Equal(t, 1, config.PickMin)
	assert.Equal(t, 2, config.PickMax)
	assert.Equal(t, 30*time.Minute, config.RefreshInterval)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.True(t, config.IsProduction())
	assert.NoError(t, config.Validate())
}

func TestLoadConfigBadInt(t *testing.T) {
	t.Setenv("PICK_MAX", "lots")
	assert.Equal(t, 7, LoadConfig().PickMax)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"addr without port", func(c *Config) { c.HTTPAddr = "localhost" }},
		{"empty port", func(c *Config) { c.HTTPAddr = "localhost:" }},
		{"zero attempts", func(c *Config) { c.MaxRegionAttempts = 0 }},
		{"zero pick min", func(c *Config) { c.PickMin = 0 }},
		{"inverted range", func(c *Config) { c.PickMin, c.PickMax = 5, 4 }},
		{"negative refresh", func(c *Config) { c.RefreshInterval = -time.Minute }},
		{"no streams", func(c *Config) { c.RedisAddr, c.RedisStreamCount = "localhost:6379", 0 }},
		{"empty dataset path", func(c *Config) { c.DatasetPath = "" }},
		{"unknown format", func(c *Config) { c.DatasetPath = "dataset.xml" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := LoadConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)

			var me *apperrors.MallError
			assert.True(t, errors.As(err, &me))
			assert.Equal(t, apperrors.ErrorTypeConfiguration, me.Type)
		})
	}
}
