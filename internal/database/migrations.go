package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Migration is one ordered schema step. Up and Down run inside a
// transaction together with the bookkeeping row.
type Migration struct {
	ID   string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

type schemaMigration struct {
	ID        string `gorm:"primaryKey"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// Snapshots of the tables as each migration created them. They must not
// follow later model changes.
type orphanageV1 struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"not null"`
	Latitude       float64   `gorm:"not null"`
	Longitude      float64   `gorm:"not null"`
	About          string    `gorm:"type:text;not null"`
	Instructions   string    `gorm:"type:text;not null"`
	OpeningHours   string    `gorm:"not null"`
	OpenOnWeekends bool      `gorm:"not null;default:false"`
	Accept         bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (orphanageV1) TableName() string { return "orphanages" }

type imageV1 struct {
	ID          uint        `gorm:"primaryKey"`
	Name        string      `gorm:"not null"`
	Size        int64       `gorm:"not null"`
	Key         string      `gorm:"not null"`
	URL         string      `gorm:"column:url;not null"`
	OrphanageID uint        `gorm:"not null;index"`
	Orphanage   orphanageV1 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (imageV1) TableName() string { return "images" }

type userV1 struct {
	ID                   uint    `gorm:"primaryKey"`
	Name                 string  `gorm:"not null"`
	Email                string  `gorm:"uniqueIndex;not null"`
	Password             string  `gorm:"not null"`
	PasswordResetToken   *string `gorm:"index"`
	PasswordResetExpires *time.Time
	CreatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (userV1) TableName() string { return "users" }

func createTable(model any) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error { return tx.Migrator().CreateTable(model) }
}

func dropTable(model any) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error { return tx.Migrator().DropTable(model) }
}

// Migrations lists every schema step in application order.
var Migrations = []Migration{
	{ID: "1602590079587_create_orphanages", Up: createTable(&orphanageV1{}), Down: dropTable(&orphanageV1{})},
	{ID: "1602590079600_create_images", Up: createTable(&imageV1{}), Down: dropTable(&imageV1{})},
	{ID: "1610833197601_create_users", Up: createTable(&userV1{}), Down: dropTable(&userV1{})},
}

var ErrNothingToRollback = errors.New("no applied migrations")

type Migrator struct {
	db         *gorm.DB
	log        zerolog.Logger
	migrations []Migration
}

func NewMigrator(db *gorm.DB, log zerolog.Logger, migrations []Migration) *Migrator {
	return &Migrator{db: db, log: log, migrations: migrations}
}

// Up applies every pending migration in order and returns the ids applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return nil, fmt.Errorf("schema_migrations: %w", err)
	}

	done, err := m.applied(db)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, mig := range m.migrations {
		if _, ok := done[mig.ID]; ok {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: mig.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s: %w", mig.ID, err)
		}
		m.log.Info().Str("migration", mig.ID).Msg("migration applied")
		ran = append(ran, mig.ID)
	}
	return ran, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return "", fmt.Errorf("schema_migrations: %w", err)
	}

	done, err := m.applied(db)
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if _, ok := done[mig.ID]; !ok {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&schemaMigration{ID: mig.ID}).Error
		})
		if err != nil {
			return "", fmt.Errorf("rollback %s: %w", mig.ID, err)
		}
		m.log.Info().Str("migration", mig.ID).Msg("migration rolled back")
		return mig.ID, nil
	}
	return "", ErrNothingToRollback
}

func (m *Migrator) applied(db *gorm.DB) (map[string]struct{}, error) {
	var rows []schemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	done := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		done[row.ID] = struct{}{}
	}
	return done, nil
}
