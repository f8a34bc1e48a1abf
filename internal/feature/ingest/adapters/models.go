// Package adapters はingestフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// CompanyModel is a row of the companies table. Symbol is the external join key.
type CompanyModel struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CompanyModel) TableName() string {
	return "companies"
}

// PriceSnapshotModel is a row of the price_snapshots table.
// (company_id, snapshot_date) is unique and is the upsert conflict target.
type PriceSnapshotModel struct {
	ID           uint         `gorm:"primaryKey"`
	CompanyID    uint         `gorm:"not null;uniqueIndex:price_snapshot_company_date,priority:1"`
	Company      CompanyModel `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT"`
	SnapshotDate time.Time    `gorm:"type:date;not null;uniqueIndex:price_snapshot_company_date,priority:2"`

	OpenPrice  decimal.Decimal `gorm:"type:numeric(28,8);not null"`
	ClosePrice decimal.Decimal `gorm:"type:numeric(28,8);not null"`
	HighPrice  decimal.Decimal `gorm:"type:numeric(28,8);not null"`
	LowPrice   decimal.Decimal `gorm:"type:numeric(28,8);not null"`
	Volume     decimal.Decimal `gorm:"type:numeric(28,8);not null"`
}

func (PriceSnapshotModel) TableName() string {
	return "price_snapshots"
}

// FundamentalsModel is a row of the fundamentals table, keyed by symbol.
// It has no relation to companies.id.
type FundamentalsModel struct {
	ID         uint       `gorm:"primaryKey"`
	Symbol     string     `gorm:"size:32;not null;uniqueIndex"`
	DebtToFCF  null.Float `gorm:"column:debt_to_fcf"`
	MarketCap  null.Float `gorm:"column:market_cap"`
	TrailingPE null.Float `gorm:"column:trailing_pe"`
	ForwardPE  null.Float `gorm:"column:forward_pe"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

func (FundamentalsModel) TableName() string {
	return "fundamentals"
}

// AllModels lists every model owned by the ingest feature, in migration order.
func AllModels() []any {
	return []any{&CompanyModel{}, &PriceSnapshotModel{}, &FundamentalsModel{}}
}
