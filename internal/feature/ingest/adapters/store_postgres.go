package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_ingest/internal/feature/ingest/usecase"
)

// store bundles the repositories bound to one *gorm.DB (usually a transaction).
type store struct {
	*companyPostgres
	*priceSnapshotPostgres
	*fundamentalsPostgres
}

var _ usecase.Store = (*store)(nil)

// NewStore returns all ingest repositories sharing db.
func NewStore(db *gorm.DB) usecase.Store {
	return &store{
		companyPostgres:       NewCompanyRepository(db),
		priceSnapshotPostgres: NewPriceSnapshotRepository(db),
		fundamentalsPostgres:  NewFundamentalsRepository(db),
	}
}

// Transactor runs a batch inside one database transaction.
type Transactor struct {
	db *gorm.DB
}

var _ usecase.Transactor = (*Transactor)(nil)

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store usecase.Store) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}
