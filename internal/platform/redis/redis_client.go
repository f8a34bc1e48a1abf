// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_ingest/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// NewRedisClient は設定からクライアントを生成し、接続を確認します。
// Hostが空の場合はキャッシュ無効として (nil, nil) を返します。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
