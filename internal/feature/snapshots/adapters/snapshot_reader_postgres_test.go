package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ingestadapters "stock_ingest/internal/feature/ingest/adapters"
	ingestentity "stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/snapshots/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(ingestadapters.AllModels()...))
	return db
}

// seed はインジェストと同じリポジトリ経由でデータを書き込みます。
func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	store := ingestadapters.NewStore(db)

	btc, err := store.EnsureCompany(ctx, "BTCUSDT", "BTC/USDT")
	require.NoError(t, err)
	_, err = store.EnsureCompany(ctx, "ETHUSDT", "ETH/USDT")
	require.NoError(t, err)
	_, err = store.EnsureCompany(ctx, "BNBUSDT", "BNB/USDT")
	require.NoError(t, err)

	for _, d := range []struct {
		day   int
		close string
	}{{1, "100.5"}, {3, "300.25"}, {2, "200"}} {
		date := time.Date(2024, 1, d.day, 0, 0, 0, 0, time.UTC)
		p := ingestentity.PricePoint{
			OpenTime: date,
			Open:     decimal.RequireFromString("1"),
			High:     decimal.RequireFromString("2"),
			Low:      decimal.RequireFromString("0.5"),
			Close:    decimal.RequireFromString(d.close),
			Volume:   decimal.RequireFromString("10"),
		}
		require.NoError(t, store.UpsertPriceSnapshot(ctx, btc, date, p))
	}

	require.NoError(t, store.UpsertFundamentals(ctx, "INFY.NS", ingestentity.Fundamentals{
		MarketCap:  null.FloatFrom(6.2e12),
		TrailingPE: null.FloatFrom(24.5),
	}))
}

func TestSnapshotReader_ListCompanies(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	seed(t, db)
	r := NewSnapshotReader(db)
	ctx := context.Background()

	all, err := r.ListCompanies(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"BNBUSDT", "BTCUSDT", "ETHUSDT"}, []string{all[0].Symbol, all[1].Symbol, all[2].Symbol})
	assert.Equal(t, "BNB/USDT", all[0].Name)

	page, err := r.ListCompanies(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "BTCUSDT", page[0].Symbol)

	n, err := r.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSnapshotReader_GetCompany(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	seed(t, db)
	r := NewSnapshotReader(db)
	ctx := context.Background()

	t.Run("latest snapshot by date", func(t *testing.T) {
		got, err := r.GetCompany(ctx, "BTCUSDT")
		require.NoError(t, err)
		assert.Equal(t, "BTC/USDT", got.Company.Name)
		require.NotNil(t, got.Latest)
		assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), got.Latest.Date)
		assert.True(t, decimal.RequireFromString("300.25").Equal(got.Latest.Close))
	})

	t.Run("company without snapshots", func(t *testing.T) {
		got, err := r.GetCompany(ctx, "ETHUSDT")
		require.NoError(t, err)
		assert.Nil(t, got.Latest)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := r.GetCompany(ctx, "FAKECOIN")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSnapshotReader_GetFundamentals(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	seed(t, db)
	r := NewSnapshotReader(db)
	ctx := context.Background()

	got, err := r.GetFundamentals(ctx, "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, null.FloatFrom(6.2e12), got.MarketCap)
	assert.Equal(t, null.FloatFrom(24.5), got.TrailingPE)
	assert.False(t, got.ForwardPE.Valid)
	assert.False(t, got.DebtToFCF.Valid)

	_, err = r.GetFundamentals(ctx, "TCS.NS")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
