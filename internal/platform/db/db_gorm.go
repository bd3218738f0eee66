// Package db owns the application's single gorm handle: opened once at
// startup, migrated, and injected into every repository.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authadapters "asset_dashboard/internal/feature/auth/adapters"
	pricesadapters "asset_dashboard/internal/feature/prices/adapters"
)

// DefaultSQLitePath はSQLiteキャッシュファイルのデフォルトパスです。
const DefaultSQLitePath = "data/prices.db"

// Open opens the price cache database. PostgreSQL is used when DATABASE_URL
// is set; otherwise a local SQLite file (PRICES_DB_PATH or the default).
// The schema is migrated before the handle is returned.
func Open() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		slog.Info("using postgres price store")
	} else {
		path := os.Getenv("PRICES_DB_PATH")
		if path == "" {
			path = DefaultSQLitePath
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		abs, _ := filepath.Abs(path)
		slog.Info("using sqlite price store", "path", abs)
	}

	// マイグレーション（PricePoint, User）
	if err := db.AutoMigrate(
		&pricesadapters.PricePointModel{},
		&authadapters.UserModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
