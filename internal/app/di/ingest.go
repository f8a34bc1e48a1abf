package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	ingestadapters "stock_ingest/internal/feature/ingest/adapters"
	"stock_ingest/internal/feature/ingest/usecase"
	"stock_ingest/internal/platform/cache"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/scheduler"
)

// NewCryptoIngest wires the exchange client, the transactional store and the cache invalidator.
func NewCryptoIngest(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *usecase.IngestUsecase {
	return usecase.NewIngestUsecase(
		NewMarket(cfg),
		ingestadapters.NewTransactor(db),
		cache.NewKeyInvalidator(rdb, cache.DefaultNamespace),
	)
}

// NewFundamentalsIngest wires the quote provider, the transactional store and the cache invalidator.
func NewFundamentalsIngest(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *usecase.FundamentalsUsecase {
	return usecase.NewFundamentalsUsecase(
		NewFundamentalsProvider(cfg),
		ingestadapters.NewTransactor(db),
		cache.NewKeyInvalidator(rdb, cache.DefaultNamespace),
	)
}

// NewCryptoIngestJob returns a scheduler job that builds a fresh usecase per run,
// so every run loads the exchange universe once.
func NewCryptoIngestJob(cfg *config.Config, db *gorm.DB, rdb *redis.Client) scheduler.Job {
	symbols := cfg.CryptoSymbols()
	return func(ctx context.Context) error {
		report, err := NewCryptoIngest(cfg, db, rdb).IngestAll(ctx, symbols)
		if err != nil {
			return err
		}
		slog.Info("ingestion committed",
			"ingested", len(report.Ingested), "skipped", len(report.Skipped))
		return nil
	}
}
