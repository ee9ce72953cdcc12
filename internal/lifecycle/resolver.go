package lifecycle

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unilift/unilift-backend/internal/models"
)

// lockAvailableDriver picks the Available driver with the lowest id and
// locks the row so two concurrent creates cannot both choose it. Lowest-id
// order makes the pick deterministic for a small campus fleet; no other
// ranking is applied.
func lockAvailableDriver(tx *gorm.DB) (*models.Driver, error) {
	var driver models.Driver
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("availability_status = ?", models.DriverAvailable).
		Order("id ASC").
		First(&driver).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDriverAvailable
	}
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// AssignVehicleToDriver attaches the first free vehicle to a newly created
// driver inside tx. No free vehicle is not an error; the driver simply
// stays unassigned.
func AssignVehicleToDriver(tx *gorm.DB, driverID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("assigned = ?", models.VehicleUnassigned).
		Order("id ASC").
		First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	vehicle.DriverID = &driverID
	vehicle.Assigned = models.VehicleAssigned
	if err := tx.Save(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ReleaseVehicleFromDriver frees whatever vehicle the driver holds. Used
// when a driver is deleted or unassigned by an admin.
func ReleaseVehicleFromDriver(ctx context.Context, db *gorm.DB, driverID uint) error {
	return db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("driver_id = ?", driverID).
		Updates(map[string]interface{}{
			"driver_id": nil,
			"assigned":  models.VehicleUnassigned,
		}).Error
}
