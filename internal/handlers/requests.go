package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
	"github.com/unilift/unilift-backend/internal/services"
)

type createRequestInput struct {
	StudentID      uint   `json:"student_id"`
	PickupLocation string `json:"pickup_location" binding:"required"`
	PickupTime     string `json:"pickup_time" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
	Notes          string `json:"notes"`
}

type updateRequestInput struct {
	// Exactly one variant is acted on: a driver status change, a student
	// rating, or a student field edit.
	Status         *string `json:"status"`
	Rate           *int    `json:"rate"`
	PickupLocation string  `json:"pickup_location"`
	PickupTime     string  `json:"pickup_time"`
	Destination    string  `json:"destination"`
	Notes          string  `json:"notes"`
}

func parsePickupTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}

// CreateRequest handles ride requests from students. Driver assignment is
// resolved synchronously; with no Available driver the request is never
// persisted and the client gets 503.
func CreateRequest(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("role")

		if role != "student" {
			c.JSON(403, gin.H{"error": "Only students can request rides"})
			return
		}

		var input createRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		pickupTime, err := parsePickupTime(input.PickupTime)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid pickup_time"})
			return
		}

		studentID := userID
		if input.StudentID != 0 {
			if input.StudentID != userID {
				c.JSON(403, gin.H{"error": "Cannot create requests for another student"})
				return
			}
			studentID = input.StudentID
		}

		request, err := m.CreateRequest(c.Request.Context(), lifecycle.CreateInput{
			StudentID:      studentID,
			PickupLocation: input.PickupLocation,
			Destination:    input.Destination,
			PickupTime:     pickupTime,
			Notes:          input.Notes,
		})
		if err != nil {
			respondLifecycleError(c, err)
			return
		}

		ctx := context.Background()
		if request.DriverID != nil {
			services.SetDriverAvailability(ctx, *request.DriverID, false)
		}
		services.PublishRequestUpdate(ctx, request.ID, request.Status, gin.H{
			"studentId": request.StudentID,
		})

		c.JSON(201, gin.H{
			"message":   "Ride request submitted and driver assigned successfully",
			"requestId": request.ID,
			"driverId":  request.DriverID,
		})
	}
}

// GetDriverRequests returns a driver's active queue ordered by pickup time.
// Drivers can only read their own queue; admins may pass any driver id.
func GetDriverRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseDriverIDQuery(c)
		if !ok {
			return
		}

		var requests []models.RideRequest
		if err := db.Preload("Student").Preload("Student.ResAddress").
			Where("driver_id = ? AND status IN ?", driverID, []string{
				string(lifecycle.StatusPending),
				string(lifecycle.StatusAssigned),
				string(lifecycle.StatusInProgress),
			}).
			Order("pickup_time ASC").
			Find(&requests).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride requests"})
			return
		}

		c.JSON(200, requests)
	}
}

// GetCompletedToday counts a driver's rides completed since midnight.
// Scoped to the caller like GetDriverRequests.
func GetCompletedToday(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseDriverIDQuery(c)
		if !ok {
			return
		}

		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		var count int64
		if err := db.Model(&models.RideRequest{}).
			Where("driver_id = ? AND status = ? AND updated_at >= ?",
				driverID, string(lifecycle.StatusCompleted), startOfDay).
			Count(&count).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch completed ride count"})
			return
		}

		c.JSON(200, gin.H{"count": count})
	}
}

// GetAllRequests lists every request across all statuses for the admin
// console, joined with student, residence and driver, optionally filtered
// by driver.
func GetAllRequests(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var driverFilter *uint
		if s := c.Query("driverId"); s != "" {
			id, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid driver ID"})
				return
			}
			v := uint(id)
			driverFilter = &v
		}

		query := db.Preload("Student").Preload("Student.ResAddress").Preload("Driver")
		if driverFilter != nil {
			query = query.Where("driver_id = ?", *driverFilter)
		}

		var requests []models.RideRequest
		if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride requests"})
			return
		}

		c.JSON(200, requests)
	}
}

// parseDriverIDQuery reads the driverId query param and rejects callers
// asking about a driver other than themselves, admins excepted.
func parseDriverIDQuery(c *gin.Context) (uint, bool) {
	driverIDStr := c.Query("driverId")
	if driverIDStr == "" {
		c.JSON(400, gin.H{"error": "Driver ID is required"})
		return 0, false
	}
	driverID, err := strconv.ParseUint(driverIDStr, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid driver ID"})
		return 0, false
	}

	if c.GetString("role") != "admin" && uint(driverID) != c.GetUint("userId") {
		c.JSON(403, gin.H{"error": "Cannot view another driver's requests"})
		return 0, false
	}
	return uint(driverID), true
}

// UpdateRequest handles the PUT surface: a driver status change, a rating
// submission, or a student field edit, decided by the body.
func UpdateRequest(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := parseRequestID(c)
		if !ok {
			return
		}

		var input updateRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		switch {
		case input.Status != nil:
			transitionRequest(c, m, requestID, *input.Status)
		case input.Rate != nil:
			submitRating(c, m, requestID, *input.Rate)
		default:
			editRequestFields(c, m, requestID, input)
		}
	}
}

// PatchRequestStatus moves a request along the lifecycle graph. Unlike the
// old unconditional write, illegal edges are rejected with a conflict.
func PatchRequestStatus(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := parseRequestID(c)
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		transitionRequest(c, m, requestID, input.Status)
	}
}

// CancelRequest cancels a non-terminal request and releases its driver.
func CancelRequest(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := parseRequestID(c)
		if !ok {
			return
		}

		if !authorizeRequestAccess(c, m, requestID) {
			return
		}

		request, err := m.Cancel(c.Request.Context(), requestID)
		if err != nil {
			respondLifecycleError(c, err)
			return
		}

		ctx := context.Background()
		if request.DriverID != nil {
			services.SetDriverAvailability(ctx, *request.DriverID, true)
		}
		services.PublishRequestUpdate(ctx, request.ID, request.Status, nil)

		c.JSON(200, gin.H{
			"message": "Request cancelled successfully",
			"request": request,
		})
	}
}

// RateRequest is the dedicated rating endpoint.
func RateRequest(db *gorm.DB, m *lifecycle.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := parseRequestID(c)
		if !ok {
			return
		}

		var input struct {
			Rate *int `json:"rate" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		submitRating(c, m, requestID, *input.Rate)
	}
}

func parseRequestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid request ID"})
		return 0, false
	}
	return uint(id), true
}

// authorizeRequestAccess checks that the caller owns the request (student),
// is its assigned driver, or is an admin.
func authorizeRequestAccess(c *gin.Context, m *lifecycle.Manager, requestID uint) bool {
	userID := c.GetUint("userId")
	role := c.GetString("role")

	if role == "admin" {
		return true
	}

	request, err := m.Get(c.Request.Context(), requestID)
	if err != nil {
		respondLifecycleError(c, err)
		return false
	}

	if role == "student" && request.StudentID != userID {
		c.JSON(403, gin.H{"error": "Unauthorized to modify this request"})
		return false
	}
	if role == "driver" && (request.DriverID == nil || *request.DriverID != userID) {
		c.JSON(403, gin.H{"error": "Unauthorized to modify this request"})
		return false
	}
	return true
}

func transitionRequest(c *gin.Context, m *lifecycle.Manager, requestID uint, status string) {
	role := c.GetString("role")
	if role != "driver" && role != "admin" {
		c.JSON(403, gin.H{"error": "Only drivers can update ride status"})
		return
	}
	if !authorizeRequestAccess(c, m, requestID) {
		return
	}

	request, err := m.Transition(c.Request.Context(), requestID, lifecycle.Status(status))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	ctx := context.Background()
	if lifecycle.Status(request.Status) == lifecycle.StatusCancelled && request.DriverID != nil {
		services.SetDriverAvailability(ctx, *request.DriverID, true)
	}
	services.PublishRequestUpdate(ctx, request.ID, request.Status, nil)

	c.JSON(200, gin.H{
		"message": "Ride status updated successfully",
		"request": request,
	})
}

func submitRating(c *gin.Context, m *lifecycle.Manager, requestID uint, rate int) {
	role := c.GetString("role")
	if role != "student" {
		c.JSON(403, gin.H{"error": "Only students can rate rides"})
		return
	}
	if rate < 1 || rate > 5 {
		c.JSON(400, gin.H{"error": "Invalid rating value. Must be a number between 1 and 5"})
		return
	}
	if !authorizeRequestAccess(c, m, requestID) {
		return
	}

	request, err := m.SubmitRating(c.Request.Context(), requestID, rate)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message": "Rating submitted successfully",
		"request": request,
	})
}

func editRequestFields(c *gin.Context, m *lifecycle.Manager, requestID uint, input updateRequestInput) {
	role := c.GetString("role")
	if role != "student" && role != "admin" {
		c.JSON(403, gin.H{"error": "Only students can edit ride requests"})
		return
	}
	if input.PickupTime == "" || input.PickupLocation == "" || input.Destination == "" {
		c.JSON(400, gin.H{"error": "Missing required fields: pickup_time, pickup_location, destination"})
		return
	}
	pickupTime, err := parsePickupTime(input.PickupTime)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid pickup_time"})
		return
	}
	if !authorizeRequestAccess(c, m, requestID) {
		return
	}

	request, err := m.UpdateFields(c.Request.Context(), requestID, lifecycle.UpdateInput{
		PickupLocation: input.PickupLocation,
		Destination:    input.Destination,
		PickupTime:     pickupTime,
		Notes:          input.Notes,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"message": "Request updated successfully",
		"request": request,
	})
}
