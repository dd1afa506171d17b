package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	catalogusecase "gadget_backend/internal/feature/catalog/usecase"
	"gadget_backend/internal/platform/cache"
	"gadget_backend/internal/platform/config"
	platformredis "gadget_backend/internal/platform/redis"
)

// NewRedis returns a connected client, or nil when Redis is not configured or unreachable.
// The service runs without a cache in that case.
func NewRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.RedisEnabled() {
		slog.Info("REDIS_HOST not set; running without cache")
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, platformredis.Options{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewCatalogRepository wraps inner with the Redis read cache when rdb is available.
func NewCatalogRepository(rdb *redis.Client, ttl time.Duration, inner catalogusecase.CatalogRepository) catalogusecase.CatalogRepository {
	if rdb == nil {
		return inner
	}
	return cache.NewCachingCatalogRepository(rdb, ttl, inner, "catalog")
}
