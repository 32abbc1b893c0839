package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maxiG180/trimminflow/internal/config"
	"github.com/maxiG180/trimminflow/internal/models"
	"github.com/maxiG180/trimminflow/internal/timezone"
)

// NoOverlapConstraint keeps two blocking appointments of one barber from overlapping
// even if a writer bypasses the advisory lock.
const NoOverlapConstraint = "appointments_barber_no_overlap"

func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
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

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.Barber{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Replaced by the partial indexes on WorkingHours.
	if db.Migrator().HasIndex(&models.WorkingHours{}, "idx_hours_owner_day") {
		if err := db.Migrator().DropIndex(&models.WorkingHours{}, "idx_hours_owner_day"); err != nil {
			return fmt.Errorf("drop idx_hours_owner_day: %w", err)
		}
	}

	if err := EnsureNoOverlapConstraint(db); err != nil {
		return err
	}

	return db.Exec(
		`UPDATE barbershops SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		timezone.DefaultTimezone,
	).Error
}

// EnsureNoOverlapConstraint installs btree_gist and the exclusion constraint once.
func EnsureNoOverlapConstraint(db *gorm.DB) error {
	var n int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`,
		NoOverlapConstraint,
	).Scan(&n).Error; err != nil {
		return fmt.Errorf("check overlap constraint: %w", err)
	}
	if n > 0 {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	err := db.Exec(`
		ALTER TABLE appointments
		ADD CONSTRAINT ` + NoOverlapConstraint + `
		EXCLUDE USING gist (
			barber_id WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		)
		WHERE (status IN ('pending', 'confirmed'))
	`).Error
	if err != nil {
		return fmt.Errorf("add overlap constraint: %w", err)
	}
	return nil
}
