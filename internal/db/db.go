package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/config"
	"github.com/vagabondbarber/booking-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.Appointment{},
		&models.Testimonial{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := EnsureBookingConstraints(db); err != nil {
		log.Fatalf("failed to create booking constraints: %v", err)
	}

	return db
}

// EnsureBookingConstraints installs the partial unique indexes that close
// the check-then-act races in booking: one non-cancelled appointment per
// barber slot, one active appointment per client. Two concurrent requests
// can both pass the read-time checks; exactly one insert survives these.
func EnsureBookingConstraints(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_barber_slot
			ON appointments (barber_id, date)
			WHERE status NOT IN ('CANCELLED')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_client_active
			ON appointments (user_id)
			WHERE status IN ('PENDING', 'CONFIRMED')`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
