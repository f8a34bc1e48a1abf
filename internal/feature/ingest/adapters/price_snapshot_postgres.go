package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
)

type priceSnapshotPostgres struct {
	db *gorm.DB
}

var _ usecase.PriceSnapshotRepository = (*priceSnapshotPostgres)(nil)

func NewPriceSnapshotRepository(db *gorm.DB) *priceSnapshotPostgres {
	return &priceSnapshotPostgres{db: db}
}

func toSnapshotModel(companyID uint, date time.Time, p entity.PricePoint) PriceSnapshotModel {
	return PriceSnapshotModel{
		CompanyID:    companyID,
		SnapshotDate: entity.DateOf(date),
		OpenPrice:    p.Open,
		ClosePrice:   p.Close,
		HighPrice:    p.High,
		LowPrice:     p.Low,
		Volume:       p.Volume,
	}
}

// UpsertPriceSnapshot writes one snapshot per (company, date) with a single
// conflict-target upsert, so concurrent runs cannot produce duplicate rows.
func (r *priceSnapshotPostgres) UpsertPriceSnapshot(ctx context.Context, companyID uint, date time.Time, p entity.PricePoint) error {
	m := toSnapshotModel(companyID, date, p)
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"open_price", "close_price", "high_price", "low_price", "volume"}),
		}).Create(&m).Error
}
