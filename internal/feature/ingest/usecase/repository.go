// Package usecase は外部APIから取得した市場データをデータベースへ取り込むユースケースを実装します。
package usecase

import (
	"context"
	"time"

	"stock_ingest/internal/feature/ingest/domain/entity"
)

// MarketRepository は取引所APIから銘柄メタデータと最新価格を取得するリポジトリです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// ResolveInstrument は銘柄のメタデータを返します。未知の銘柄は domain.ErrInstrumentNotFound。
	ResolveInstrument(ctx context.Context, symbol string) (entity.Instrument, error)
	// FetchLatestRecord は最新の日足を1件返します。データが無い場合は domain.ErrNoPriceData。
	FetchLatestRecord(ctx context.Context, symbol string) (entity.PricePoint, error)
}

// FundamentalsProvider は株式のファンダメンタルズを取得するリポジトリです。
type FundamentalsProvider interface {
	// FetchFundamentals は結果が無い場合 domain.ErrNoFundamentals を返します。
	FetchFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error)
}

// CompanyRepository は companies テーブルへの upsert を抽象化します。
type CompanyRepository interface {
	// EnsureCompany は銘柄の会社行を作成、または name を上書きし、安定したIDを返します。
	EnsureCompany(ctx context.Context, symbol, name string) (uint, error)
}

// PriceSnapshotRepository は price_snapshots テーブルへの upsert を抽象化します。
type PriceSnapshotRepository interface {
	UpsertPriceSnapshot(ctx context.Context, companyID uint, date time.Time, p entity.PricePoint) error
}

// FundamentalsRepository は fundamentals テーブルへの upsert を抽象化します。
type FundamentalsRepository interface {
	UpsertFundamentals(ctx context.Context, symbol string, f entity.Fundamentals) error
}

// Store は1つのトランザクションに束ねられたリポジトリ群です。
type Store interface {
	CompanyRepository
	PriceSnapshotRepository
	FundamentalsRepository
}

// Transactor は fn を単一のトランザクション内で実行します。
// fn が nil を返した場合のみコミットし、それ以外はロールバックします。
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// Invalidator はコミット後に書き込まれた銘柄の読み取りキャッシュを破棄します。
type Invalidator interface {
	Invalidate(ctx context.Context, symbols []string) error
}
