package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
	"github.com/unilift/unilift-backend/pkg/utils"
)

// DriverStats summarises a driver's completed rides, average rating and
// flat-fare earnings.
func DriverStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var completed int64
		if err := db.Model(&models.RideRequest{}).
			Where("driver_id = ? AND status = ?", userID, string(lifecycle.StatusCompleted)).
			Count(&completed).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch driver stats"})
			return
		}

		var avgRating sql.NullFloat64
		if err := db.Model(&models.RideRequest{}).
			Where("driver_id = ? AND rating IS NOT NULL AND rating > 0", userID).
			Select("AVG(rating)").
			Scan(&avgRating).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch driver stats"})
			return
		}

		rating := 0.0
		if avgRating.Valid {
			rating = avgRating.Float64
		}

		earnings := utils.Earnings(completed)
		c.JSON(200, gin.H{
			"completedRides":    completed,
			"averageRating":     rating,
			"earnings":          earnings,
			"earningsFormatted": utils.FormatRand(earnings),
		})
	}
}

// DriverMonthlyStats returns the caller's completed rides and earnings per
// month of the current year. Months with no rides report zero.
func DriverMonthlyStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var rows []struct {
			Month int
			Count int64
		}
		if err := db.Model(&models.RideRequest{}).
			Select("EXTRACT(MONTH FROM updated_at)::int AS month, COUNT(*) AS count").
			Where("driver_id = ? AND status = ? AND EXTRACT(YEAR FROM updated_at) = EXTRACT(YEAR FROM CURRENT_DATE)",
				userID, string(lifecycle.StatusCompleted)).
			Group("month").
			Order("month").
			Scan(&rows).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch monthly stats"})
			return
		}

		byMonth := map[int]int64{}
		for _, row := range rows {
			byMonth[row.Month] = row.Count
		}

		months := make([]gin.H, 0, 12)
		for m := 1; m <= 12; m++ {
			months = append(months, gin.H{
				"month":          m,
				"completedRides": byMonth[m],
				"earnings":       utils.Earnings(byMonth[m]),
			})
		}

		c.JSON(200, gin.H{"months": months})
	}
}

// DriverYearlyStats returns per-year completed rides, earnings and average
// rating across the driver's whole history.
func DriverYearlyStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var rows []struct {
			Year      int
			Count     int64
			AvgRating sql.NullFloat64
		}
		if err := db.Model(&models.RideRequest{}).
			Select("EXTRACT(YEAR FROM updated_at)::int AS year, COUNT(*) AS count, AVG(NULLIF(rating, 0)) AS avg_rating").
			Where("driver_id = ? AND status = ?", userID, string(lifecycle.StatusCompleted)).
			Group("year").
			Order("year").
			Scan(&rows).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch yearly stats"})
			return
		}

		years := make([]gin.H, 0, len(rows))
		for _, row := range rows {
			rating := 0.0
			if row.AvgRating.Valid {
				rating = row.AvgRating.Float64
			}
			years = append(years, gin.H{
				"year":           row.Year,
				"completedRides": row.Count,
				"earnings":       utils.Earnings(row.Count),
				"averageRating":  rating,
			})
		}

		c.JSON(200, gin.H{"years": years})
	}
}

// DriverRatings lists the caller's rated rides, newest first.
func DriverRatings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var rated []models.RideRequest
		if err := db.Preload("Student").
			Where("driver_id = ? AND rating IS NOT NULL AND rating > 0", userID).
			Order("updated_at DESC").
			Find(&rated).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ratings"})
			return
		}

		c.JSON(200, gin.H{"ratings": rated})
	}
}

// StudentStats summarises a student's ride history.
func StudentStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		counts := map[string]int64{}
		for _, status := range []lifecycle.Status{
			lifecycle.StatusPending,
			lifecycle.StatusAssigned,
			lifecycle.StatusInProgress,
			lifecycle.StatusCompleted,
			lifecycle.StatusCancelled,
		} {
			var n int64
			if err := db.Model(&models.RideRequest{}).
				Where("student_id = ? AND status = ?", userID, string(status)).
				Count(&n).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch student stats"})
				return
			}
			counts[string(status)] = n
		}

		c.JSON(200, gin.H{
			"totalRequests": counts[string(lifecycle.StatusPending)] +
				counts[string(lifecycle.StatusAssigned)] +
				counts[string(lifecycle.StatusInProgress)] +
				counts[string(lifecycle.StatusCompleted)] +
				counts[string(lifecycle.StatusCancelled)],
			"byStatus": counts,
		})
	}
}

// AdminReports returns fleet-wide totals for the admin dashboard.
func AdminReports(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalStudents, totalDrivers, totalVehicles int64
		if err := db.Model(&models.Student{}).Count(&totalStudents).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reports"})
			return
		}
		if err := db.Model(&models.Driver{}).Count(&totalDrivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reports"})
			return
		}
		if err := db.Model(&models.Vehicle{}).Count(&totalVehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reports"})
			return
		}

		byStatus := map[string]int64{}
		rows := []struct {
			Status string
			Count  int64
		}{}
		if err := db.Model(&models.RideRequest{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&rows).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reports"})
			return
		}
		for _, row := range rows {
			byStatus[row.Status] = row.Count
		}

		completed := byStatus[string(lifecycle.StatusCompleted)]
		revenue := utils.Earnings(completed)

		c.JSON(200, gin.H{
			"totalStudents":    totalStudents,
			"totalDrivers":     totalDrivers,
			"totalVehicles":    totalVehicles,
			"requestsByStatus": byStatus,
			"completedRides":   completed,
			"revenue":          revenue,
			"revenueFormatted": utils.FormatRand(revenue),
		})
	}
}
