package adapters

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to initialize test database")

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(AllModels()...)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func pricePoint(openTime time.Time, open, high, low, close, volume string) entity.PricePoint {
	return entity.PricePoint{
		OpenTime: openTime,
		Open:     decimal.RequireFromString(open),
		High:     decimal.RequireFromString(high),
		Low:      decimal.RequireFromString(low),
		Close:    decimal.RequireFromString(close),
		Volume:   decimal.RequireFromString(volume),
	}
}

func TestCompanyPostgres_EnsureCompany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success: inserts unseen symbol", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewCompanyRepository(db)

		id, err := repo.EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
		require.NoError(t, err)
		assert.NotZero(t, id)

		var m CompanyModel
		require.NoError(t, db.First(&m, id).Error)
		assert.Equal(t, "BTCUSDT", m.Symbol)
		assert.Equal(t, "BTC/USDT", m.Name)
	})

	t.Run("success: existing symbol keeps id and takes latest name", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewCompanyRepository(db)

		first, err := repo.EnsureCompany(ctx, "BTCUSDT", "A")
		require.NoError(t, err)
		_, err = repo.EnsureCompany(ctx, "ETHUSDT", "ETH/USDT")
		require.NoError(t, err)
		second, err := repo.EnsureCompany(ctx, "BTCUSDT", "B")
		require.NoError(t, err)

		assert.Equal(t, first, second, "id must be stable")

		var count int64
		db.Model(&CompanyModel{}).Where("symbol = ?", "BTCUSDT").Count(&count)
		assert.Equal(t, int64(1), count)

		var m CompanyModel
		require.NoError(t, db.First(&m, first).Error)
		assert.Equal(t, "B", m.Name)
	})
}

func TestPriceSnapshotPostgres_UpsertPriceSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		writes       []entity.PricePoint
		validateFunc func(t *testing.T, db *gorm.DB, companyID uint)
	}{
		{
			name:   "success: insert single snapshot",
			writes: []entity.PricePoint{pricePoint(day, "42000.10", "43000.50", "41000", "42500.25", "1234.567")},
			validateFunc: func(t *testing.T, db *gorm.DB, companyID uint) {
				var rows []PriceSnapshotModel
				require.NoError(t, db.Find(&rows).Error)
				require.Len(t, rows, 1)
				r := rows[0]
				assert.Equal(t, companyID, r.CompanyID)
				assert.True(t, r.OpenPrice.Equal(decimal.RequireFromString("42000.10")), "open %s", r.OpenPrice)
				assert.True(t, r.HighPrice.Equal(decimal.RequireFromString("43000.50")), "high %s", r.HighPrice)
				assert.True(t, r.LowPrice.Equal(decimal.RequireFromString("41000")), "low %s", r.LowPrice)
				assert.True(t, r.ClosePrice.Equal(decimal.RequireFromString("42500.25")), "close %s", r.ClosePrice)
				assert.True(t, r.Volume.Equal(decimal.RequireFromString("1234.567")), "volume %s", r.Volume)
			},
		},
		{
			name: "success: same day twice keeps one row with the second values",
			writes: []entity.PricePoint{
				pricePoint(day, "100", "110", "90", "105", "10"),
				pricePoint(day.Add(5*time.Hour), "200", "220", "180", "210", "20"),
			},
			validateFunc: func(t *testing.T, db *gorm.DB, companyID uint) {
				var rows []PriceSnapshotModel
				require.NoError(t, db.Find(&rows).Error)
				require.Len(t, rows, 1)
				assert.True(t, rows[0].ClosePrice.Equal(decimal.NewFromInt(210)), "close %s", rows[0].ClosePrice)
				assert.True(t, rows[0].Volume.Equal(decimal.NewFromInt(20)), "volume %s", rows[0].Volume)
			},
		},
		{
			name: "success: different days are separate rows",
			writes: []entity.PricePoint{
				pricePoint(day, "100", "110", "90", "105", "10"),
				pricePoint(day.AddDate(0, 0, 1), "105", "115", "95", "110", "15"),
			},
			validateFunc: func(t *testing.T, db *gorm.DB, companyID uint) {
				var count int64
				db.Model(&PriceSnapshotModel{}).Where("company_id = ?", companyID).Count(&count)
				assert.Equal(t, int64(2), count)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := setupTestDB(t)
			companyID, err := NewCompanyRepository(db).EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
			require.NoError(t, err)

			repo := NewPriceSnapshotRepository(db)
			for _, p := range tt.writes {
				require.NoError(t, repo.UpsertPriceSnapshot(ctx, companyID, p.SnapshotDate(), p))
			}
			tt.validateFunc(t, db, companyID)
		})
	}
}

func TestFundamentalsPostgres_UpsertFundamentals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success: insert then overwrite with null", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		repo := NewFundamentalsRepository(db)

		require.NoError(t, repo.UpsertFundamentals(ctx, "INFY.NS", entity.Fundamentals{
			DebtToFCF:  null.FloatFrom(0.5),
			MarketCap:  null.FloatFrom(7.5e12),
			TrailingPE: null.FloatFrom(10),
			ForwardPE:  null.FloatFrom(22.1),
		}))

		var m FundamentalsModel
		require.NoError(t, db.Where("symbol = ?", "INFY.NS").Take(&m).Error)
		assert.Equal(t, null.FloatFrom(10), m.TrailingPE)
		assert.Equal(t, null.FloatFrom(7.5e12), m.MarketCap)

		// second response lacks trailing PE
		require.NoError(t, repo.UpsertFundamentals(ctx, "INFY.NS", entity.Fundamentals{
			DebtToFCF: null.FloatFrom(0.6),
			MarketCap: null.FloatFrom(8e12),
			ForwardPE: null.FloatFrom(23),
		}))

		var rows []FundamentalsModel
		require.NoError(t, db.Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].TrailingPE.Valid, "trailing_pe must be overwritten with NULL")
		assert.Equal(t, null.FloatFrom(0.6), rows[0].DebtToFCF)
		assert.Equal(t, null.FloatFrom(8e12), rows[0].MarketCap)
		assert.Equal(t, null.FloatFrom(23), rows[0].ForwardPE)
	})
}

func TestTransactor_WithinTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("success: commits all writes", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)

		err := NewTransactor(db).WithinTx(ctx, func(ctx context.Context, s usecase.Store) error {
			id, err := s.EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
			if err != nil {
				return err
			}
			return s.UpsertPriceSnapshot(ctx, id, day, pricePoint(day, "1", "1", "1", "1", "1"))
		})
		require.NoError(t, err)

		var companies, snapshots int64
		db.Model(&CompanyModel{}).Count(&companies)
		db.Model(&PriceSnapshotModel{}).Count(&snapshots)
		assert.Equal(t, int64(1), companies)
		assert.Equal(t, int64(1), snapshots)
	})

	t.Run("error: rolls back every write of the run", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		boom := errors.New("network failure")

		err := NewTransactor(db).WithinTx(ctx, func(ctx context.Context, s usecase.Store) error {
			id, err := s.EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
			if err != nil {
				return err
			}
			if err := s.UpsertPriceSnapshot(ctx, id, day, pricePoint(day, "1", "1", "1", "1", "1")); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		var companies, snapshots int64
		db.Model(&CompanyModel{}).Count(&companies)
		db.Model(&PriceSnapshotModel{}).Count(&snapshots)
		assert.Zero(t, companies)
		assert.Zero(t, snapshots)
	})

	t.Run("success: earlier committed runs survive a later abort", func(t *testing.T) {
		t.Parallel()
		db := setupTestDB(t)
		tx := NewTransactor(db)

		require.NoError(t, tx.WithinTx(ctx, func(ctx context.Context, s usecase.Store) error {
			_, err := s.EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
			return err
		}))
		_ = tx.WithinTx(ctx, func(ctx context.Context, s usecase.Store) error {
			if _, err := s.EnsureCompany(ctx, "BTCUSDT", "renamed"); err != nil {
				return err
			}
			return errors.New("abort")
		})

		var m CompanyModel
		require.NoError(t, db.Where("symbol = ?", "BTCUSDT").Take(&m).Error)
		assert.Equal(t, "BTC/USDT", m.Name)
	})
}

func TestPriceSnapshotModel_CompositeUniqueIndex(t *testing.T) {
	t.Parallel()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	db := setupTestDB(t)

	assert.True(t, db.Migrator().HasIndex(&PriceSnapshotModel{}, "price_snapshot_company_date"))

	company := CompanyModel{Symbol: "BTCUSDT", Name: "BTC/USDT"}
	require.NoError(t, db.Create(&company).Error)

	row := func() *PriceSnapshotModel {
		one := decimal.NewFromInt(1)
		return &PriceSnapshotModel{
			CompanyID: company.ID, SnapshotDate: day,
			OpenPrice: one, ClosePrice: one, HighPrice: one, LowPrice: one, Volume: one,
		}
	}
	require.NoError(t, db.Create(row()).Error)
	assert.Error(t, db.Create(row()).Error, "a plain insert of the same (company, date) must be rejected")
}

// TestTransactor_WithinTx_OverlappingRuns は2つのトランザクションが同じ(company, date)を
// 並行して書き込んでも1行に収束することを検証します。
func TestTransactor_WithinTx_OverlappingRuns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	dsn := "file:" + filepath.Join(t.TempDir(), "ingest.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(AllModels()...))

	closes := []string{"100", "200"}
	errs := make([]error, len(closes))
	var wg sync.WaitGroup
	for i, c := range closes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = NewTransactor(db).WithinTx(ctx, func(ctx context.Context, s usecase.Store) error {
				id, err := s.EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
				if err != nil {
					return err
				}
				return s.UpsertPriceSnapshot(ctx, id, day, pricePoint(day, c, c, c, c, c))
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	var rows []PriceSnapshotModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	got := rows[0].ClosePrice
	assert.True(t, got.Equal(decimal.NewFromInt(100)) || got.Equal(decimal.NewFromInt(200)), "close %s", got)

	var companies int64
	require.NoError(t, db.Model(&CompanyModel{}).Count(&companies).Error)
	assert.Equal(t, int64(1), companies)
}
