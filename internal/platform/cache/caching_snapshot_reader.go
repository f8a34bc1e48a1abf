// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	ingestusecase "stock_ingest/internal/feature/ingest/usecase"
	"stock_ingest/internal/feature/snapshots/domain/entity"
	"stock_ingest/internal/feature/snapshots/usecase"
)

const (
	// DefaultNamespace prefixes every key written by this package.
	DefaultNamespace = "snapshots"
	// DefaultTTL is used when a non-positive TTL is given.
	DefaultTTL = 5 * time.Minute

	kindCompany      = "company"
	kindFundamentals = "fundamentals"
)

// CachingSnapshotReader decorates a SnapshotReader with Redis caching of
// per-symbol lookups. Listing and counting always go to the inner reader.
type CachingSnapshotReader struct {
	inner     usecase.SnapshotReader
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SnapshotReader = (*CachingSnapshotReader)(nil)

// NewCachingSnapshotReader decorates a SnapshotReader with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "snapshots".
func NewCachingSnapshotReader(rdb *redis.Client, ttl time.Duration, inner usecase.SnapshotReader, namespace string) *CachingSnapshotReader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingSnapshotReader{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *CachingSnapshotReader) ListCompanies(ctx context.Context, limit, offset int) ([]entity.Company, error) {
	return c.inner.ListCompanies(ctx, limit, offset)
}

func (c *CachingSnapshotReader) CountCompanies(ctx context.Context) (int64, error) {
	return c.inner.CountCompanies(ctx)
}

// GetCompany checks the cache first, then falls back to the inner reader.
func (c *CachingSnapshotReader) GetCompany(ctx context.Context, symbol string) (entity.CompanyDetail, error) {
	return readThrough(ctx, c, cacheKey(c.namespace, symbol, kindCompany), func() (entity.CompanyDetail, error) {
		return c.inner.GetCompany(ctx, symbol)
	})
}

// GetFundamentals checks the cache first, then falls back to the inner reader.
func (c *CachingSnapshotReader) GetFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error) {
	return readThrough(ctx, c, cacheKey(c.namespace, symbol, kindFundamentals), func() (entity.Fundamentals, error) {
		return c.inner.GetFundamentals(ctx, symbol)
	})
}

// readThrough serves key from Redis or loads, stores and returns it.
// Errors from the loader, including not found, are never cached.
func readThrough[T any](ctx context.Context, c *CachingSnapshotReader, key string, load func() (T, error)) (T, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return out, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// KeyInvalidator removes every cached entry of the given symbols after an ingestion run.
type KeyInvalidator struct {
	rdb       *redis.Client
	namespace string
}

var _ ingestusecase.Invalidator = (*KeyInvalidator)(nil)

// NewKeyInvalidator returns an invalidator for namespace (default "snapshots").
// A nil client makes Invalidate a no-op.
func NewKeyInvalidator(rdb *redis.Client, namespace string) *KeyInvalidator {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &KeyInvalidator{rdb: rdb, namespace: namespace}
}

// Invalidate deletes namespace:SYMBOL:* for each distinct symbol.
// It keeps going after a failure and returns the first error.
func (i *KeyInvalidator) Invalidate(ctx context.Context, symbols []string) error {
	if i.rdb == nil || len(symbols) == 0 {
		return nil
	}

	var firstErr error
	seen := map[string]struct{}{}
	for _, s := range symbols {
		prefix := cacheKeyPrefix(i.namespace, s)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		if err := deleteByPattern(ctx, i.rdb, globEscaper.Replace(prefix)+"*"); err != nil {
			slog.Warn("cache invalidation failed", "symbol", s, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("invalidate %s: %w", s, err)
			}
		}
	}
	return firstErr
}

// cacheKey generates a cache key for a symbol lookup.
func cacheKey(namespace, symbol, kind string) string {
	return cacheKeyPrefix(namespace, symbol) + kind
}

// cacheKeyPrefix generates a prefix for invalidating every entry of a symbol.
func cacheKeyPrefix(namespace, symbol string) string {
	return namespace + ":" + safe(symbol) + ":"
}

// globEscaper escapes SCAN MATCH metacharacters so a prefix matches literally.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe encodes a symbol as a key segment. Symbols are upper-cased so that
// cached and invalidated keys agree; the encoding is injective and leaves
// no ':' or glob characters.
func safe(s string) string {
	return url.QueryEscape(strings.ToUpper(strings.TrimSpace(s)))
}
