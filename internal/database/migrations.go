package database

import (
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.ResAddress{},
		&models.Student{},
		&models.Driver{},
		&models.Admin{},
		&models.Vehicle{},
		&models.RideRequest{},
	)
	if err != nil {
		return err
	}

	// Enum-style check constraints; status strings must match the
	// lifecycle spelling exactly, including In_progress.
	db.Exec(`ALTER TABLE ride_requests DROP CONSTRAINT IF EXISTS ride_requests_status_check`)
	if err := db.Exec(`ALTER TABLE ride_requests ADD CONSTRAINT ride_requests_status_check
		CHECK (status IN ('Pending', 'Assigned', 'In_progress', 'Completed', 'Cancelled'))`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE ride_requests DROP CONSTRAINT IF EXISTS ride_requests_rating_check`)
	if err := db.Exec(`ALTER TABLE ride_requests ADD CONSTRAINT ride_requests_rating_check
		CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5))`).Error; err != nil {
		return err
	}

	db.Exec(`ALTER TABLE drivers DROP CONSTRAINT IF EXISTS drivers_availability_status_check`)
	if err := db.Exec(`ALTER TABLE drivers ADD CONSTRAINT drivers_availability_status_check
		CHECK (availability_status IN ('Available', 'Not Available'))`).Error; err != nil {
		return err
	}

	// The assigned flag mirrors driver_id nullness.
	db.Exec(`ALTER TABLE vehicles DROP CONSTRAINT IF EXISTS vehicles_assigned_check`)
	if err := db.Exec(`ALTER TABLE vehicles ADD CONSTRAINT vehicles_assigned_check
		CHECK ((assigned = 'Y' AND driver_id IS NOT NULL) OR (assigned = 'N' AND driver_id IS NULL))`).Error; err != nil {
		return err
	}

	return nil
}
