package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_ingest/internal/feature/ingest/usecase"
)

type companyPostgres struct {
	db *gorm.DB
}

var _ usecase.CompanyRepository = (*companyPostgres)(nil)

func NewCompanyRepository(db *gorm.DB) *companyPostgres {
	return &companyPostgres{db: db}
}

// EnsureCompany inserts the company or, when the symbol exists, overwrites its name.
// The id of an existing row never changes.
func (r *companyPostgres) EnsureCompany(ctx context.Context, symbol, name string) (uint, error) {
	m := CompanyModel{Symbol: symbol, Name: name}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&m).Error; err != nil {
		return 0, err
	}

	// The conflict path does not report the id on every dialect, so read it back.
	var out CompanyModel
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("symbol = ?", symbol).
		Take(&out).Error; err != nil {
		return 0, err
	}
	return out.ID, nil
}
