package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/unilift/unilift-backend/internal/database"
	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
)

// Handler tests that need a real Postgres, gated like the lifecycle suite.
func setupHandlersDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("UNILIFT_TEST_DSN")
	if dsn == "" {
		t.Skip("UNILIFT_TEST_DSN not set, skipping database tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	require.NoError(t, db.Exec(
		`TRUNCATE ride_requests, vehicles, students, res_addresses, drivers, admins RESTART IDENTITY CASCADE`,
	).Error)

	return db
}

func seedDBStudent(t *testing.T, db *gorm.DB, n int) *models.Student {
	t.Helper()

	res := models.ResAddress{Name: "Pine Hall", StreetName: "Church St", HouseNumber: "4"}
	require.NoError(t, db.Create(&res).Error)

	student := models.Student{
		StudentNo:      fmt.Sprintf("H%06d", n),
		Name:           "Lerato",
		Surname:        "Nkosi",
		Email:          fmt.Sprintf("hstudent%d@test.local", n),
		ContactDetails: "0821112222",
		ResID:          res.ID,
		Role:           "student",
	}
	require.NoError(t, student.SetPassword("secret"))
	require.NoError(t, db.Create(&student).Error)
	return &student
}

func seedDBDriver(t *testing.T, db *gorm.DB, n int) *models.Driver {
	t.Helper()

	driver := models.Driver{
		Name:               "Bongani",
		Surname:            "Zulu",
		Email:              fmt.Sprintf("hdriver%d@test.local", n),
		License:            fmt.Sprintf("HLC%06d", n),
		ContactDetails:     fmt.Sprintf("08300000%02d", n),
		AvailabilityStatus: models.DriverNotAvailable,
		Role:               "driver",
	}
	require.NoError(t, driver.SetPassword("secret"))
	require.NoError(t, db.Create(&driver).Error)
	return &driver
}

func seedDBRequest(t *testing.T, db *gorm.DB, studentID, driverID uint, status lifecycle.Status) *models.RideRequest {
	t.Helper()

	request := models.RideRequest{
		StudentID:      studentID,
		DriverID:       &driverID,
		PickupLocation: "Main Gate",
		Destination:    "Station",
		PickupTime:     time.Now().Add(time.Hour),
		Status:         string(status),
	}
	require.NoError(t, db.Create(&request).Error)
	return &request
}

func TestDeleteStudentRemovesRideHistory(t *testing.T) {
	db := setupHandlersDB(t)
	student := seedDBStudent(t, db, 1)
	driver := seedDBDriver(t, db, 1)
	seedDBRequest(t, db, student.ID, driver.ID, lifecycle.StatusPending)
	seedDBRequest(t, db, student.ID, driver.ID, lifecycle.StatusCompleted)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(99, "admin"))
	r.DELETE("/students/:id", DeleteStudent(db))

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/students/%d", student.ID), "")
	require.Equal(t, 200, w.Code)

	var requestCount int64
	require.NoError(t, db.Unscoped().Model(&models.RideRequest{}).Count(&requestCount).Error)
	assert.Zero(t, requestCount, "a removed student's requests must not survive, even soft-deleted")

	var studentCount int64
	require.NoError(t, db.Unscoped().Model(&models.Student{}).Count(&studentCount).Error)
	assert.Zero(t, studentCount)
}

func TestDeleteDriverRemovesRideHistoryAndFreesVehicle(t *testing.T) {
	db := setupHandlersDB(t)
	student := seedDBStudent(t, db, 1)
	driver := seedDBDriver(t, db, 1)
	seedDBRequest(t, db, student.ID, driver.ID, lifecycle.StatusCompleted)

	vehicle := models.Vehicle{
		VehicleModel: "Quantum",
		PlateNumber:  "CA 555-777",
		Capacity:     14,
		Assigned:     models.VehicleUnassigned,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	_, err := lifecycle.AssignVehicleToDriver(db, driver.ID)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(99, "admin"))
	r.DELETE("/drivers/:id", DeleteDriver(db))

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/drivers/%d", driver.ID), "")
	require.Equal(t, 200, w.Code)

	var requestCount int64
	require.NoError(t, db.Unscoped().Model(&models.RideRequest{}).Count(&requestCount).Error)
	assert.Zero(t, requestCount, "a removed driver's requests must not survive, even soft-deleted")

	var driverCount int64
	require.NoError(t, db.Unscoped().Model(&models.Driver{}).Count(&driverCount).Error)
	assert.Zero(t, driverCount)

	var reloaded models.Vehicle
	require.NoError(t, db.First(&reloaded, vehicle.ID).Error)
	assert.Nil(t, reloaded.DriverID)
	assert.Equal(t, models.VehicleUnassigned, reloaded.Assigned)
}

func TestGetAllRequestsListsAndFilters(t *testing.T) {
	db := setupHandlersDB(t)
	studentA := seedDBStudent(t, db, 1)
	studentB := seedDBStudent(t, db, 2)
	driverA := seedDBDriver(t, db, 1)
	driverB := seedDBDriver(t, db, 2)
	seedDBRequest(t, db, studentA.ID, driverA.ID, lifecycle.StatusPending)
	seedDBRequest(t, db, studentB.ID, driverB.ID, lifecycle.StatusCompleted)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(99, "admin"))
	r.GET("/requests/all", GetAllRequests(db))

	w := doJSON(r, http.MethodGet, "/requests/all", "")
	require.Equal(t, 200, w.Code)
	var all []models.RideRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)
	require.NotNil(t, all[0].Student)
	assert.NotNil(t, all[0].Student.ResAddress)

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/requests/all?driverId=%d", driverB.ID), "")
	require.Equal(t, 200, w.Code)
	var filtered []models.RideRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	require.NotNil(t, filtered[0].DriverID)
	assert.Equal(t, driverB.ID, *filtered[0].DriverID)
}

func TestDriverMonthlyStatsCountsCompletedOnly(t *testing.T) {
	db := setupHandlersDB(t)
	student := seedDBStudent(t, db, 1)
	driver := seedDBDriver(t, db, 1)
	seedDBRequest(t, db, student.ID, driver.ID, lifecycle.StatusCompleted)
	seedDBRequest(t, db, student.ID, driver.ID, lifecycle.StatusCompleted)
	seedDBRequest(t, db, student.ID, driver.ID, lifecycle.StatusCancelled)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(driver.ID, "driver"))
	r.GET("/stats/driver/monthly", DriverMonthlyStats(db))

	w := doJSON(r, http.MethodGet, "/stats/driver/monthly", "")
	require.Equal(t, 200, w.Code)

	var body struct {
		Months []struct {
			Month          int     `json:"month"`
			CompletedRides int64   `json:"completedRides"`
			Earnings       float64 `json:"earnings"`
		} `json:"months"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Months, 12)

	current := int(time.Now().Month())
	for _, m := range body.Months {
		if m.Month == current {
			assert.Equal(t, int64(2), m.CompletedRides)
			assert.Equal(t, 150.0, m.Earnings)
		} else {
			assert.Zero(t, m.CompletedRides)
		}
	}
}

func TestRegisterDriverDuplicateLicense(t *testing.T) {
	db := setupHandlersDB(t)
	existing := seedDBDriver(t, db, 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register(db))

	body := fmt.Sprintf(
		`{"name":"A","surname":"B","email":"new@test.local","password":"secret","role":"driver","contactDetails":"0845556666","license":%q}`,
		existing.License)
	w := doJSON(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, 409, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Driver{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
