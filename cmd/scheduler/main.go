// Command scheduler runs the exchange ingestion on a fixed interval while the
// configured market is open, and exposes its status and a manual trigger.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/app/router"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/http/handler"
	"stock_ingest/internal/platform/logger"
	"stock_ingest/internal/platform/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("scheduler failed", "error", err)
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

	db, err := di.OpenDB(cfg)
	if err != nil {
		return err
	}
	rdb := di.OpenRedis(ctx, cfg)
	defer di.CloseRedis(rdb)

	cal := scheduler.NewCalendar(cfg.Scheduler.Market)
	s := scheduler.New(di.NewCryptoIngestJob(cfg, db, rdb), cal, cfg.Scheduler.Interval)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           router.NewSchedulerRouter(handler.NewSchedulerHandler(s)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("control server stopped", "error", err)
		}
	}()

	slog.Info("scheduler configured", "market", cal.MIC(), "calendar_fallback", cal.Fallback(),
		"interval", cfg.Scheduler.Interval, "symbols", cfg.CryptoSymbols())
	s.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
