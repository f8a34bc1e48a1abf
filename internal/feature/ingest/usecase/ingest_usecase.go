package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_ingest/internal/feature/ingest/domain"
	"stock_ingest/internal/feature/ingest/domain/entity"
)

// IngestUsecase は取引所APIから最新の日足を取得し、price_snapshots に永続化するユースケースです。
type IngestUsecase struct {
	market      MarketRepository
	tx          Transactor
	invalidator Invalidator
}

// NewIngestUsecase は新しい IngestUsecase を作成します。invalidator は nil でも構いません。
func NewIngestUsecase(market MarketRepository, tx Transactor, invalidator Invalidator) *IngestUsecase {
	return &IngestUsecase{market: market, tx: tx, invalidator: invalidator}
}

// ingestOne は1銘柄分のメタデータ解決・価格取得・upsert を行います。
func (iu *IngestUsecase) ingestOne(ctx context.Context, store Store, symbol string) error {
	inst, err := iu.market.ResolveInstrument(ctx, symbol)
	if err != nil {
		return err
	}

	p, err := iu.market.FetchLatestRecord(ctx, symbol)
	if err != nil {
		return err
	}

	companyID, err := store.EnsureCompany(ctx, symbol, inst.DisplayName())
	if err != nil {
		return fmt.Errorf("ensure company: %w", err)
	}
	if err := store.UpsertPriceSnapshot(ctx, companyID, p.SnapshotDate(), p); err != nil {
		return fmt.Errorf("upsert price snapshot: %w", err)
	}
	return nil
}

// IngestAll は指定された銘柄を順番に取り込み、最後に一度だけコミットします。
// 未知の銘柄や価格データが空の銘柄はログに出力してスキップします。
// それ以外のエラーが発生した場合は実行全体をロールバックし、エラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (Report, error) {
	return runBatch(ctx, iu.tx, iu.invalidator, symbols, iu.ingestOne)
}

// runBatch は価格・ファンダメンタルズ両方の取り込みで共有されるバッチ実行です。
func runBatch(ctx context.Context, tx Transactor, invalidator Invalidator, symbols []string,
	one func(ctx context.Context, store Store, symbol string) error) (Report, error) {
	report := Report{State: Running}
	var ingested []string

	err := tx.WithinTx(ctx, func(ctx context.Context, store Store) error {
		for _, raw := range symbols {
			symbol := entity.NormalizeSymbol(raw)
			if err := one(ctx, store, symbol); err != nil {
				if domain.IsSkippable(err) {
					slog.Warn("skipping symbol", "symbol", symbol, "reason", err)
					report.Skipped = append(report.Skipped, Skip{Symbol: symbol, Reason: err})
					continue
				}
				return fmt.Errorf("ingest %s: %w", symbol, err)
			}
			ingested = append(ingested, symbol)
			slog.Info("ingested symbol", "symbol", symbol)
		}
		return nil
	})
	if err != nil {
		report.State = Aborted
		return report, err
	}

	report.State = Committed
	report.Ingested = ingested

	if invalidator != nil && len(ingested) > 0 {
		// キャッシュ破棄はベストエフォート。失敗しても実行は成功扱い
		if err := invalidator.Invalidate(ctx, ingested); err != nil {
			slog.Warn("failed to invalidate read cache", "symbols", ingested, "error", err)
		}
	}
	return report, nil
}
