// Package adapters はsnapshotsフィーチャーの読み取りリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	ingestadapters "stock_ingest/internal/feature/ingest/adapters"
	"stock_ingest/internal/feature/snapshots/domain"
	"stock_ingest/internal/feature/snapshots/domain/entity"
	"stock_ingest/internal/feature/snapshots/usecase"
)

// snapshotReaderPostgres はインジェストが書き込んだテーブルを読み取ります。
type snapshotReaderPostgres struct {
	db *gorm.DB
}

// snapshotReaderPostgresがSnapshotReaderを実装していることをコンパイル時に検証します。
var _ usecase.SnapshotReader = (*snapshotReaderPostgres)(nil)

// NewSnapshotReader はgormベースのSnapshotReaderを生成します。
func NewSnapshotReader(db *gorm.DB) *snapshotReaderPostgres {
	return &snapshotReaderPostgres{db: db}
}

// ListCompanies は銘柄コード順に銘柄を返します。
func (r *snapshotReaderPostgres) ListCompanies(ctx context.Context, limit, offset int) ([]entity.Company, error) {
	var rows []ingestadapters.CompanyModel
	if err := r.db.WithContext(ctx).
		Order("symbol ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Company, 0, len(rows))
	for _, m := range rows {
		out = append(out, toCompany(m))
	}
	return out, nil
}

// CountCompanies は銘柄の総数を返します。
func (r *snapshotReaderPostgres) CountCompanies(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ingestadapters.CompanyModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// GetCompany は銘柄と最新日付のスナップショットを返します。
func (r *snapshotReaderPostgres) GetCompany(ctx context.Context, symbol string) (entity.CompanyDetail, error) {
	db := r.db.WithContext(ctx)

	var c ingestadapters.CompanyModel
	if err := db.Where("symbol = ?", symbol).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.CompanyDetail{}, domain.ErrNotFound
		}
		return entity.CompanyDetail{}, err
	}

	detail := entity.CompanyDetail{Company: toCompany(c)}

	var s ingestadapters.PriceSnapshotModel
	err := db.Where("company_id = ?", c.ID).Order("snapshot_date DESC").Take(&s).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 銘柄はあるがスナップショットは未取得
	case err != nil:
		return entity.CompanyDetail{}, err
	default:
		detail.Latest = &entity.Snapshot{
			Date:   s.SnapshotDate.UTC(),
			Open:   s.OpenPrice,
			High:   s.HighPrice,
			Low:    s.LowPrice,
			Close:  s.ClosePrice,
			Volume: s.Volume,
		}
	}
	return detail, nil
}

// GetFundamentals は銘柄コードでファンダメンタルズを返します。
func (r *snapshotReaderPostgres) GetFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error) {
	var m ingestadapters.FundamentalsModel
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Fundamentals{}, domain.ErrNotFound
		}
		return entity.Fundamentals{}, err
	}
	return entity.Fundamentals{
		Symbol:     m.Symbol,
		DebtToFCF:  m.DebtToFCF,
		MarketCap:  m.MarketCap,
		TrailingPE: m.TrailingPE,
		ForwardPE:  m.ForwardPE,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func toCompany(m ingestadapters.CompanyModel) entity.Company {
	return entity.Company{ID: m.ID, Symbol: m.Symbol, Name: m.Name, UpdatedAt: m.UpdatedAt}
}
