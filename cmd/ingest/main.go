// Command ingest pulls the latest daily kline for each configured exchange
// symbol and upserts it in a single transaction.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	db, err := di.OpenDB(cfg)
	if err != nil {
		return err
	}
	rdb := di.OpenRedis(ctx, cfg)
	defer di.CloseRedis(rdb)

	symbols := cfg.CryptoSymbols()
	slog.Info("starting ingestion", "symbols", symbols)

	report, err := di.NewCryptoIngest(cfg, db, rdb).IngestAll(ctx, symbols)
	if err != nil {
		return err
	}
	slog.Info("ingest ok", "state", report.State.String(),
		"ingested", report.Ingested, "skipped", len(report.Skipped))
	return nil
}
