package database_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database/testdb"
)

func openEmpty(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.GormConfig(zerolog.Nop(), 0))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigratorUp(t *testing.T) {
	db := openEmpty(t)
	m := database.NewMigrator(db, zerolog.Nop(), database.Migrations)

	ran, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"1602590079587_create_orphanages",
		"1602590079600_create_images",
		"1610833197601_create_users",
	}, ran)

	for _, table := range []string{"orphanages", "images", "users", "schema_migrations"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		ran, err := m.Up(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ran)
	})
}

func TestMigratorDown(t *testing.T) {
	db := testdb.Open(t)
	m := database.NewMigrator(db, zerolog.Nop(), database.Migrations)

	id, err := m.Down(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1610833197601_create_users", id)
	assert.False(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("images"))

	_, err = m.Down(context.Background())
	require.NoError(t, err)
	_, err = m.Down(context.Background())
	require.NoError(t, err)
	assert.False(t, db.Migrator().HasTable("orphanages"))

	_, err = m.Down(context.Background())
	assert.ErrorIs(t, err, database.ErrNothingToRollback)
}

func TestImagesReferenceOrphanages(t *testing.T) {
	db := testdb.Open(t)

	err := db.Exec(`INSERT INTO images (name, size, key, url, orphanage_id) VALUES ('a.png', 1, 'k', 'u', 999)`).Error
	assert.Error(t, err, "foreign key must reject unknown orphanage")
}
