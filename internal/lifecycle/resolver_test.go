package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
)

func seedVehicle(t *testing.T, db *gorm.DB, plate string) *models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{
		VehicleModel: "Quantum",
		PlateNumber:  plate,
		Capacity:     14,
		Assigned:     models.VehicleUnassigned,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return &vehicle
}

func TestAssignVehiclePicksLowestFree(t *testing.T) {
	db := setupTestDB(t)
	first := seedVehicle(t, db, "CA 123-456")
	seedVehicle(t, db, "CA 789-012")
	driver := seedDriver(t, db, 1, false)

	assigned, err := lifecycle.AssignVehicleToDriver(db, driver.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned)
	assert.Equal(t, first.ID, assigned.ID)
	assert.Equal(t, models.VehicleAssigned, assigned.Assigned)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, driver.ID, *assigned.DriverID)
}

func TestAssignVehicleNoneFree(t *testing.T) {
	db := setupTestDB(t)
	driver := seedDriver(t, db, 1, false)
	other := seedDriver(t, db, 2, false)

	vehicle := seedVehicle(t, db, "CA 123-456")
	_, err := lifecycle.AssignVehicleToDriver(db, other.ID)
	require.NoError(t, err)

	assigned, err := lifecycle.AssignVehicleToDriver(db, driver.ID)
	require.NoError(t, err)
	assert.Nil(t, assigned, "a fully assigned fleet yields no vehicle")

	var reloaded models.Vehicle
	require.NoError(t, db.First(&reloaded, vehicle.ID).Error)
	require.NotNil(t, reloaded.DriverID)
	assert.Equal(t, other.ID, *reloaded.DriverID)
}

func TestReleaseVehicleFromDriver(t *testing.T) {
	db := setupTestDB(t)
	driver := seedDriver(t, db, 1, false)
	vehicle := seedVehicle(t, db, "CA 123-456")

	_, err := lifecycle.AssignVehicleToDriver(db, driver.ID)
	require.NoError(t, err)

	require.NoError(t, lifecycle.ReleaseVehicleFromDriver(context.Background(), db, driver.ID))

	var reloaded models.Vehicle
	require.NoError(t, db.First(&reloaded, vehicle.ID).Error)
	assert.Nil(t, reloaded.DriverID)
	assert.Equal(t, models.VehicleUnassigned, reloaded.Assigned)
}
