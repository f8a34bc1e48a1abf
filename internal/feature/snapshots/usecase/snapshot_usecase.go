// Package usecase はインジェスト済みデータの読み取りロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	ingestentity "stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/snapshots/domain/entity"
)

const (
	// DefaultLimit は銘柄一覧のデフォルト件数です。
	DefaultLimit = 50
	// MaxLimit は銘柄一覧の最大件数です。
	MaxLimit = 500
)

// SnapshotReader はインジェスト済みデータの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SnapshotReader interface {
	// ListCompanies は銘柄コード順に銘柄を返します。
	ListCompanies(ctx context.Context, limit, offset int) ([]entity.Company, error)
	// CountCompanies は銘柄の総数を返します。
	CountCompanies(ctx context.Context) (int64, error)
	// GetCompany は銘柄と最新スナップショットを返します。存在しない場合は domain.ErrNotFound です。
	GetCompany(ctx context.Context, symbol string) (entity.CompanyDetail, error)
	// GetFundamentals はファンダメンタルズを返します。存在しない場合は domain.ErrNotFound です。
	GetFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error)
}

// snapshotUsecase は読み取りAPIのユースケースです。
type snapshotUsecase struct {
	reader SnapshotReader
}

// NewSnapshotUsecase はsnapshotUsecaseの新しいインスタンスを生成します。
func NewSnapshotUsecase(reader SnapshotReader) *snapshotUsecase {
	return &snapshotUsecase{reader: reader}
}

// ListCompanies は件数を補正したうえで銘柄一覧と総数を返します。
func (u *snapshotUsecase) ListCompanies(ctx context.Context, limit, offset int) (entity.CompanyPage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := u.reader.ListCompanies(ctx, limit, offset)
	if err != nil {
		return entity.CompanyPage{}, fmt.Errorf("list companies: %w", err)
	}
	total, err := u.reader.CountCompanies(ctx)
	if err != nil {
		return entity.CompanyPage{}, fmt.Errorf("count companies: %w", err)
	}
	return entity.CompanyPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetCompany は銘柄コードを正規化して銘柄詳細を返します。
func (u *snapshotUsecase) GetCompany(ctx context.Context, symbol string) (entity.CompanyDetail, error) {
	return u.reader.GetCompany(ctx, ingestentity.NormalizeSymbol(symbol))
}

// GetFundamentals は銘柄コードを正規化してファンダメンタルズを返します。
func (u *snapshotUsecase) GetFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error) {
	return u.reader.GetFundamentals(ctx, ingestentity.NormalizeSymbol(symbol))
}

// CountCompanies は銘柄の総数を返します。ステータス確認に使用します。
func (u *snapshotUsecase) CountCompanies(ctx context.Context) (int64, error) {
	return u.reader.CountCompanies(ctx)
}
