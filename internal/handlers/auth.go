package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
	"github.com/unilift/unilift-backend/pkg/utils"
)

type RegisterInput struct {
	Name           string `json:"name" binding:"required"`
	Surname        string `json:"surname" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=5"`
	Role           string `json:"role" binding:"required,oneof=student driver"`
	ContactDetails string `json:"contactDetails" binding:"required"`

	// Student fields
	StudentNumber string `json:"studentNumber"`
	ResName       string `json:"resName"`
	StreetName    string `json:"streetName"`
	HouseNumber   string `json:"houseNumber"`

	// Driver fields
	License string `json:"license"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a student (with their residence address) or a driver
// (with vehicle auto-assignment). Drivers start Not Available until they
// toggle themselves on.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		switch input.Role {
		case "student":
			registerStudent(c, db, input)
		case "driver":
			registerDriver(c, db, input)
		}
	}
}

func registerStudent(c *gin.Context, db *gorm.DB, input RegisterInput) {
	if input.StudentNumber == "" || input.ResName == "" || input.StreetName == "" || input.HouseNumber == "" {
		c.JSON(400, gin.H{"error": "All residence address fields are required for a student"})
		return
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	address := models.ResAddress{
		Name:        input.ResName,
		StreetName:  input.StreetName,
		HouseNumber: input.HouseNumber,
	}
	if err := tx.Create(&address).Error; err != nil {
		tx.Rollback()
		c.JSON(500, gin.H{"error": "Failed to create residence address"})
		return
	}

	student := models.Student{
		StudentNo:      input.StudentNumber,
		Name:           input.Name,
		Surname:        input.Surname,
		Email:          input.Email,
		ContactDetails: input.ContactDetails,
		ResID:          address.ID,
		Role:           "student",
	}
	if err := student.SetPassword(input.Password); err != nil {
		tx.Rollback()
		c.JSON(500, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := tx.Create(&student).Error; err != nil {
		tx.Rollback()
		if isDuplicateKey(err) {
			c.JSON(409, gin.H{"error": "A student with this student number or email already exists"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to create student"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(500, gin.H{"error": "Failed to complete registration"})
		return
	}

	c.JSON(201, gin.H{
		"message": "Student registered successfully",
		"user": gin.H{
			"id":            student.ID,
			"studentNumber": student.StudentNo,
			"name":          student.Name,
			"surname":       student.Surname,
			"email":         student.Email,
			"role":          student.Role,
		},
	})
}

func registerDriver(c *gin.Context, db *gorm.DB, input RegisterInput) {
	if input.License == "" {
		c.JSON(400, gin.H{"error": "License is required for a driver"})
		return
	}

	var existing models.Driver
	err := db.Where("license = ? OR contact_details = ? OR email = ?",
		input.License, input.ContactDetails, input.Email).First(&existing).Error
	if err == nil {
		c.JSON(409, gin.H{"error": "A driver with this license, email, or contact number already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("driver duplicate check failed: %v", err)
		c.JSON(500, gin.H{"error": "Failed to create driver"})
		return
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	driver := models.Driver{
		Name:               input.Name,
		Surname:            input.Surname,
		Email:              input.Email,
		License:            input.License,
		ContactDetails:     input.ContactDetails,
		AvailabilityStatus: models.DriverNotAvailable,
		Role:               "driver",
	}
	if err := driver.SetPassword(input.Password); err != nil {
		tx.Rollback()
		c.JSON(500, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := tx.Create(&driver).Error; err != nil {
		tx.Rollback()
		if isDuplicateKey(err) {
			c.JSON(409, gin.H{"error": "A driver with this license, email, or contact number already exists"})
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
		c.JSON(500, gin.H{"error": "Failed to complete registration"})
		return
	}

	response := gin.H{
		"id":      driver.ID,
		"name":    driver.Name,
		"surname": driver.Surname,
		"email":   driver.Email,
		"license": driver.License,
		"role":    driver.Role,
	}
	if vehicle != nil {
		response["vehicle"] = gin.H{
			"id":          vehicle.ID,
			"plateNumber": vehicle.PlateNumber,
		}
	}

	c.JSON(201, gin.H{
		"message": "Driver registered successfully",
		"user":    response,
	})
}

// Login authenticates a student or driver by email and returns a signed
// token. The lookup tries the student table first, then drivers.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var student models.Student
		if err := db.Preload("ResAddress").Where("email = ?", input.Email).First(&student).Error; err == nil {
			if err := student.CheckPassword(input.Password); err != nil {
				c.JSON(401, gin.H{"error": "Invalid credentials"})
				return
			}
			token, err := utils.GenerateToken(student.ID, student.Email, student.Role)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to generate token"})
				return
			}
			c.JSON(200, gin.H{
				"token": token,
				"user": gin.H{
					"id":            student.ID,
					"studentNumber": student.StudentNo,
					"name":          student.Name,
					"surname":       student.Surname,
					"email":         student.Email,
					"role":          student.Role,
				},
			})
			return
		}

		var driver models.Driver
		if err := db.Where("email = ?", input.Email).First(&driver).Error; err == nil {
			if err := driver.CheckPassword(input.Password); err != nil {
				c.JSON(401, gin.H{"error": "Invalid credentials"})
				return
			}
			token, err := utils.GenerateToken(driver.ID, driver.Email, driver.Role)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to generate token"})
				return
			}
			c.JSON(200, gin.H{
				"token": token,
				"user": gin.H{
					"id":                 driver.ID,
					"name":               driver.Name,
					"surname":            driver.Surname,
					"email":              driver.Email,
					"license":            driver.License,
					"availabilityStatus": driver.AvailabilityStatus,
					"role":               driver.Role,
				},
			})
			return
		}

		c.JSON(401, gin.H{"error": "Invalid credentials"})
	}
}

// StaffLogin authenticates against the admin table.
func StaffLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var admin models.Admin
		if err := db.Where("email = ?", input.Email).First(&admin).Error; err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if admin.Status != "active" {
			c.JSON(403, gin.H{"error": "Account is inactive"})
			return
		}
		if err := admin.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":      admin.ID,
				"name":    admin.Name,
				"surname": admin.Surname,
				"email":   admin.Email,
				"role":    admin.Role,
			},
		})
	}
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword resets a student's or driver's password to a random one
// and sends it by SMS. The response is identical whether or not the email
// exists, to prevent account enumeration.
func ForgotPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ForgotPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		genericResponse := gin.H{"message": "If an account is found, a password reset SMS has been sent"}

		newPassword := utils.GenerateRandomPassword(8)

		var student models.Student
		if err := db.Where("email = ?", input.Email).First(&student).Error; err == nil {
			if err := student.SetPassword(newPassword); err != nil {
				c.JSON(500, gin.H{"error": "Failed to reset password"})
				return
			}
			if err := db.Save(&student).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to reset password"})
				return
			}
			if err := utils.SendPasswordResetSMS(utils.FormatPhoneNumber(student.ContactDetails), newPassword); err != nil {
				log.Printf("Failed to send password reset SMS: %v", err)
			}
			c.JSON(200, genericResponse)
			return
		}

		var driver models.Driver
		if err := db.Where("email = ?", input.Email).First(&driver).Error; err == nil {
			if err := driver.SetPassword(newPassword); err != nil {
				c.JSON(500, gin.H{"error": "Failed to reset password"})
				return
			}
			if err := db.Save(&driver).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to reset password"})
				return
			}
			if err := utils.SendPasswordResetSMS(utils.FormatPhoneNumber(driver.ContactDetails), newPassword); err != nil {
				log.Printf("Failed to send password reset SMS: %v", err)
			}
		}

		c.JSON(200, genericResponse)
	}
}
