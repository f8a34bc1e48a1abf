// Package db はPostgreSQLへのgorm接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ingestadapters "stock_ingest/internal/feature/ingest/adapters"
	"stock_ingest/internal/platform/config"
)

// Opener はDSNからgorm.DBを開く関数です。テストではSQLiteに差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// PostgresOpener はpgxベースのgormドライバで接続を開きます。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// BuildDSN は設定から postgres:// 形式の接続文字列を組み立てます。
// ユーザー名とパスワードはURLエスケープされます。
func BuildDSN(cfg config.DBConfig) string {
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("TimeZone", "UTC")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Connect はDSNを検証してから接続を開きます。リトライは行いません。
func Connect(cfg config.DBConfig, open Opener) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	pc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	slog.Info("connecting to database", "host", pc.Host, "port", pc.Port, "database", pc.Database)
	db, err := open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate はインジェスト用テーブル（companies, price_snapshots, fundamentals）を作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(ingestadapters.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDB は接続を開き、RunMigrations が有効な場合はマイグレーションを実行します。
func OpenDB(cfg config.DBConfig, open Opener) (*gorm.DB, error) {
	db, err := Connect(cfg, open)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		slog.Info("database migrated")
	}
	return db, nil
}
