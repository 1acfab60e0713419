package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/gowhere/pkg/errors"
)

// DefaultSourceURL is the page listing Singapore's shopping malls by region
const DefaultSourceURL = "https://en.wikipedia.org/wiki/List_of_shopping_malls_in_Singapore"

// Config represents the application configuration
type Config struct {
	// HTTP front-end
	HTTPAddr string

	// Dataset location and source
	DatasetPath string
	SourceURL   string

	// Sampling
	MaxRegionAttempts int
	PickMin           int
	PickMax           int

	// Dataset refresh, 0 disables the worker
	RefreshInterval time.Duration

	// Memcache configuration, empty address disables caching
	MemcacheAddr    string
	DatasetCacheTTL time.Duration
	ScrapeBlockTime time.Duration

	// Redis configuration, empty address disables pick publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		HTTPAddr:             getEnv("HTTP_ADDR", ":5000"),
		DatasetPath:          getEnv("DATASET_PATH", "dataset.json"),
		SourceURL:            getEnv("SOURCE_URL", DefaultSourceURL),
		MaxRegionAttempts:    getEnvInt("MAX_REGION_ATTEMPTS", 5),
		PickMin:              getEnvInt("PICK_MIN", 3),
		PickMax:              getEnvInt("PICK_MAX", 7),
		RefreshInterval:      time.Duration(getEnvInt("REFRESH_INTERVAL_MINUTES", 0)) * time.Minute,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		DatasetCacheTTL:      time.Duration(getEnvInt("DATASET_CACHE_TTL_MINUTES", 60)) * time.Minute,
		ScrapeBlockTime:      time.Duration(getEnvInt("SCRAPE_BLOCK_SECONDS", 500)) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "gowhere:picks"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 1000),
		Environment:          getEnv("GOWHERE_ENVIRONMENT", "development"),
	}
}

// Validate checks values that would make the application misbehave
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.HTTPAddr); err != nil || port == "" {
		return apperrors.NewConfiguration(fmt.Sprintf("HTTP_ADDR %q must be host:port", c.HTTPAddr), err)
	}
	if c.MaxRegionAttempts < 1 {
		return apperrors.NewConfiguration(fmt.Sprintf("MAX_REGION_ATTEMPTS must be at least 1, got %d", c.MaxRegionAttempts), nil)
	}
	if c.PickMin < 1 {
		return apperrors.NewConfiguration(fmt.Sprintf("PICK_MIN must be at least 1, got %d", c.PickMin), nil)
	}
	if c.PickMax < c.PickMin {
		return apperrors.NewConfiguration(fmt.Sprintf("PICK_MAX (%d) must not be below PICK_MIN (%d)", c.PickMax, c.PickMin), nil)
	}
	if c.RefreshInterval < 0 {
		return apperrors.NewConfiguration("REFRESH_INTERVAL_MINUTES must not be negative", nil)
	}
	if c.RedisAddr != "" && c.RedisStreamCount < 1 {
		return apperrors.NewConfiguration(fmt.Sprintf("REDIS_STREAM_COUNT must be at least 1, got %d", c.RedisStreamCount), nil)
	}
	if c.DatasetPath == "" {
		return apperrors.NewConfiguration("DATASET_PATH must not be empty", nil)
	}
	switch strings.ToLower(filepath.Ext(c.DatasetPath)) {
	case ".json", ".csv", ".txt", ".yaml", ".yml":
	default:
		return apperrors.NewConfiguration(fmt.Sprintf("DATASET_PATH %q has an unsupported extension", c.DatasetPath), nil)
	}
	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable, falling back on parse errors
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
