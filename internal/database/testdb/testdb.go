// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database"
)

// Open returns a fresh database with every migration applied. The single
// connection keeps the in-memory schema alive for the test's lifetime.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.GormConfig(zerolog.Nop(), 0))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := database.NewMigrator(db, zerolog.Nop(), database.Migrations).Up(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
