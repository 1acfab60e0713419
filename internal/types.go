package internal

import (
	"context"

	"sjsage522/gowhere/config"
	"sjsage522/gowhere/logger"
	"sjsage522/gowhere/services/cache"
	"sjsage522/gowhere/services/publisher"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	// Cache is nil when no memcached is configured
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// NewDependencies connects the optional backing services. Unreachable
// services are logged and disabled rather than failing startup.
func NewDependencies(ctx context.Context, cfg *config.Config) *Dependencies {
	deps := &Dependencies{Publisher: publisher.Nop{}}

	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr, "gowhere:")
		if err := mc.Ping(); err != nil {
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, caching disabled")
		} else {
			deps.Cache = mc
			logger.ForCache().Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
		}
	}

	if cfg.RedisAddr != "" {
		rp := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
		if err := rp.Ping(); err != nil {
			logger.ForPublisher().Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, pick publishing disabled")
			rp.Close()
		} else {
			deps.Publisher = rp
			logger.ForPublisher().Info().
				Str("addr", cfg.RedisAddr).
				Int("db", cfg.RedisDB).
				Str("stream", cfg.RedisStream).
				Msg("Connected to Redis")
		}
	}

	return deps
}

// Cleanup closes every connected service
func (d *Dependencies) Cleanup() {
	if d.Publisher != nil {
		d.Publisher.Close()
	}
}
