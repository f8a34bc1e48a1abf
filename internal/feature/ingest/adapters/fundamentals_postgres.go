package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
)

type fundamentalsPostgres struct {
	db *gorm.DB
}

var _ usecase.FundamentalsRepository = (*fundamentalsPostgres)(nil)

func NewFundamentalsRepository(db *gorm.DB) *fundamentalsPostgres {
	return &fundamentalsPostgres{db: db}
}

// UpsertFundamentals overwrites every numeric column on conflict, including
// with NULL when the provider no longer reports a value.
func (r *fundamentalsPostgres) UpsertFundamentals(ctx context.Context, symbol string, f entity.Fundamentals) error {
	m := FundamentalsModel{
		Symbol:     symbol,
		DebtToFCF:  f.DebtToFCF,
		MarketCap:  f.MarketCap,
		TrailingPE: f.TrailingPE,
		ForwardPE:  f.ForwardPE,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"debt_to_fcf", "market_cap", "trailing_pe", "forward_pe", "updated_at"}),
	}).Create(&m).Error
}
