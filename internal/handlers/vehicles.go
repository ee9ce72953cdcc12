package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/models"
)

type vehicleInput struct {
	VehicleModel string `json:"vehicle_model" binding:"required"`
	PlateNumber  string `json:"plate_number" binding:"required"`
	Capacity     int    `json:"capacity" binding:"required,min=1"`
}

// GetVehicles lists the vehicle fleet with assigned drivers.
func GetVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		if err := db.Preload("Driver").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}
		c.JSON(200, vehicles)
	}
}

// GetDriverVehicle returns the vehicle assigned to a driver.
func GetDriverVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverIDStr := c.Query("driverId")
		if driverIDStr == "" {
			c.JSON(400, gin.H{"error": "Driver ID is required"})
			return
		}
		driverID, err := strconv.ParseUint(driverIDStr, 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid driver ID"})
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("driver_id = ?", uint(driverID)).First(&vehicle).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "No vehicle assigned to this driver"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch vehicle"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// AddVehicle registers a vehicle in the fleet, unassigned.
func AddVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input vehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.Vehicle{
			VehicleModel: input.VehicleModel,
			PlateNumber:  input.PlateNumber,
			Capacity:     input.Capacity,
			Assigned:     models.VehicleUnassigned,
		}
		if err := db.Create(&vehicle).Error; err != nil {
			if isDuplicateKey(err) {
				c.JSON(409, gin.H{"error": "Vehicle with this plate number already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Vehicle added successfully",
			"vehicle": vehicle,
		})
	}
}

// UpdateVehicle edits a vehicle's details.
func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, ok := parseVehicleID(c)
		if !ok {
			return
		}

		var input vehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Vehicle not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch vehicle"})
			return
		}

		vehicle.VehicleModel = input.VehicleModel
		vehicle.PlateNumber = input.PlateNumber
		vehicle.Capacity = input.Capacity

		if err := db.Save(&vehicle).Error; err != nil {
			if isDuplicateKey(err) {
				c.JSON(409, gin.H{"error": "Vehicle with this plate number already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Vehicle updated successfully",
			"vehicle": vehicle,
		})
	}
}

// DeleteVehicle removes a vehicle from the fleet.
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID, ok := parseVehicleID(c)
		if !ok {
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Vehicle not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch vehicle"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted successfully"})
	}
}

func parseVehicleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid vehicle ID"})
		return 0, false
	}
	return uint(id), true
}
