package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
	"github.com/unilift/unilift-backend/internal/services"
)

type driverInput struct {
	Name           string `json:"name" binding:"required"`
	Surname        string `json:"surname" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	License        string `json:"license" binding:"required"`
	ContactDetails string `json:"contact_details" binding:"required"`
}

// GetDrivers lists the full driver roster with assigned vehicles.
func GetDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.Driver
		if err := db.Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}

		type driverWithVehicle struct {
			models.Driver
			Vehicle *models.Vehicle `json:"vehicle,omitempty"`
		}

		result := make([]driverWithVehicle, 0, len(drivers))
		for _, driver := range drivers {
			entry := driverWithVehicle{Driver: driver}
			var vehicle models.Vehicle
			err := db.Where("driver_id = ?", driver.ID).First(&vehicle).Error
			if err == nil {
				entry.Vehicle = &vehicle
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
				return
			}
			result = append(result, entry)
		}

		c.JSON(200, result)
	}
}

// AddDriver registers a driver on behalf of an admin. The account starts
// Not Available with a default password and gets a free vehicle if one
// exists.
func AddDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input driverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		driver := models.Driver{
			Name:               input.Name,
			Surname:            input.Surname,
			Email:              input.Email,
			License:            input.License,
			ContactDetails:     input.ContactDetails,
			AvailabilityStatus: models.DriverNotAvailable,
			Role:               "driver",
		}
		if err := driver.SetPassword("Password123"); err != nil {
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Create(&driver).Error; err != nil {
			tx.Rollback()
			if isDuplicateKey(err) {
				c.JSON(409, gin.H{"error": "Driver with this email or license already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		vehicle, err := lifecycle.AssignVehicleToDriver(tx, driver.ID)
		if err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to assign vehicle"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create driver"})
			return
		}

		response := gin.H{
			"message": "Driver added successfully",
			"driver":  driver,
		}
		if vehicle != nil {
			response["vehicle"] = vehicle
		}
		c.JSON(201, response)
	}
}

// UpdateDriver edits a driver's profile fields.
func UpdateDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseDriverID(c)
		if !ok {
			return
		}

		var input driverInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var driver models.Driver
		if err := db.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Driver not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch driver"})
			return
		}

		driver.Name = input.Name
		driver.Surname = input.Surname
		driver.Email = input.Email
		driver.License = input.License
		driver.ContactDetails = input.ContactDetails

		if err := db.Save(&driver).Error; err != nil {
			if isDuplicateKey(err) {
				c.JSON(409, gin.H{"error": "Driver with this email or license already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update driver"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Driver updated successfully",
			"driver":  driver,
		})
	}
}

// DeleteDriver removes a driver, their ride history, and frees their
// vehicle, all in one transaction. The deletes are hard; no soft-deleted
// request rows survive the removal.
func DeleteDriver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseDriverID(c)
		if !ok {
			return
		}

		var driver models.Driver
		if err := db.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Driver not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch driver"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := lifecycle.ReleaseVehicleFromDriver(c.Request.Context(), tx, driver.ID); err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to release vehicle"})
			return
		}

		if err := tx.Unscoped().
			Where("driver_id = ?", driver.ID).
			Delete(&models.RideRequest{}).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to delete driver"})
			return
		}

		if err := tx.Unscoped().Delete(&driver).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to delete driver"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete driver"})
			return
		}

		c.JSON(200, gin.H{"message": "Driver deleted successfully"})
	}
}

// PatchDriverAvailability toggles a driver between Available and
// Not Available. Drivers may only toggle themselves; admins may toggle
// anyone.
func PatchDriverAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseDriverID(c)
		if !ok {
			return
		}

		userID := c.GetUint("userId")
		role := c.GetString("role")
		if role == "driver" && userID != driverID {
			c.JSON(403, gin.H{"error": "Cannot change another driver's availability"})
			return
		}

		var input struct {
			AvailabilityStatus string `json:"availability_status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.AvailabilityStatus != models.DriverAvailable &&
			input.AvailabilityStatus != models.DriverNotAvailable {
			c.JSON(400, gin.H{"error": "availability_status must be 'Available' or 'Not Available'"})
			return
		}

		var driver models.Driver
		if err := db.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Driver not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch driver"})
			return
		}

		driver.AvailabilityStatus = input.AvailabilityStatus
		if err := db.Save(&driver).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update availability"})
			return
		}

		if err := services.SetDriverAvailability(context.Background(), driver.ID,
			driver.AvailabilityStatus == models.DriverAvailable); err != nil {
			log.Printf("Failed to cache driver availability: %v", err)
		}

		c.JSON(200, gin.H{
			"message": "Availability updated successfully",
			"driver":  driver,
		})
	}
}

func parseDriverID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid driver ID"})
		return 0, false
	}
	return uint(id), true
}
