package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/db"
	infraredis "stock_ingest/internal/platform/redis"
)

// OpenDB connects to PostgreSQL and migrates when RUN_MIGRATIONS=true.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	return db.OpenDB(cfg.DB, db.PostgresOpener)
}

// OpenRedis returns a connected client, or nil when Redis is not configured
// or unreachable. The read cache is optional, so failures only log.
func OpenRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.RedisEnabled() {
		slog.Info("redis not configured, running without cache")
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "host", cfg.Redis.Host, "error", err)
		return nil
	}
	slog.Info("redis connection successful", "host", cfg.Redis.Host)
	return rdb
}

// CloseRedis closes rdb if it is non-nil.
func CloseRedis(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		slog.Error("failed to close redis client", "error", err)
	}
}
