package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/config"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/models"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/timezone"
)

// NewDB opens the pool, creates the tables and applies the SQL migrations
// that GORM cannot express (range exclusion, partial index, notify trigger).
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Service{},
		&models.OpeningHours{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(`
        UPDATE barbershops
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone).Error; err != nil {
		return nil, fmt.Errorf("backfill timezone: %w", err)
	}

	if err := Migrate(sqlDB, log); err != nil {
		return nil, err
	}

	return db, nil
}
