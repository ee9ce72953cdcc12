package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
)

// StudentDashboard returns the authenticated student's requests together
// with driver and vehicle details.
func StudentDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var student models.Student
		if err := db.Preload("ResAddress").First(&student, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Student not found"})
			return
		}

		var requests []models.RideRequest
		if err := db.Preload("Driver").
			Where("student_id = ?", userID).
			Order("pickup_time DESC").
			Find(&requests).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride requests"})
			return
		}

		type requestWithVehicle struct {
			models.RideRequest
			Vehicle *models.Vehicle `json:"vehicle,omitempty"`
		}

		enriched := make([]requestWithVehicle, 0, len(requests))
		for _, request := range requests {
			entry := requestWithVehicle{RideRequest: request}
			if request.DriverID != nil {
				var vehicle models.Vehicle
				if err := db.Where("driver_id = ?", *request.DriverID).
					First(&vehicle).Error; err == nil {
					entry.Vehicle = &vehicle
				}
			}
			enriched = append(enriched, entry)
		}

		c.JSON(200, gin.H{
			"student":  student,
			"requests": enriched,
		})
	}
}

// StudentNotifications reports status changes on the student's requests.
// Non-terminal updates are flagged as delivered once returned; a completed
// ride keeps nudging until the rating prompt is acknowledged.
func StudentNotifications(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var requests []models.RideRequest
		if err := db.Where("student_id = ? AND notified = ?", userID, false).
			Find(&requests).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		notifications, err := m.CollectNotifications(c.Request.Context(), requests)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		c.JSON(200, gin.H{"notifications": notifications})
	}
}

// MarkNotificationRead acknowledges the rating prompt for a completed ride.
func MarkNotificationRead(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := parseRequestID(c)
		if !ok {
			return
		}

		if !authorizeRequestAccess(c, m, requestID) {
			return
		}

		if err := m.MarkNotified(c.Request.Context(), requestID); err != nil {
			respondLifecycleError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Notification marked as read"})
	}
}

// DriverDashboard returns the driver's profile, vehicle, active queue and
// today's completed count in one payload.
func DriverDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var driver models.Driver
		if err := db.First(&driver, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Driver not found"})
			return
		}

		var vehicle models.Vehicle
		var vehiclePtr *models.Vehicle
		if err := db.Where("driver_id = ?", userID).First(&vehicle).Error; err == nil {
			vehiclePtr = &vehicle
		}

		var queue []models.RideRequest
		if err := db.Preload("Student").Preload("Student.ResAddress").
			Where("driver_id = ? AND status IN ?", userID, []string{
				string(lifecycle.StatusPending),
				string(lifecycle.StatusAssigned),
				string(lifecycle.StatusInProgress),
			}).
			Order("pickup_time ASC").
			Find(&queue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride requests"})
			return
		}

		var completedToday int64
		db.Model(&models.RideRequest{}).
			Where("driver_id = ? AND status = ? AND updated_at >= CURRENT_DATE",
				userID, string(lifecycle.StatusCompleted)).
			Count(&completedToday)

		c.JSON(200, gin.H{
			"driver":         driver,
			"vehicle":        vehiclePtr,
			"queue":          queue,
			"completedToday": completedToday,
		})
	}
}
