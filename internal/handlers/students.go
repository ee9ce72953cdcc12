package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/models"
)

type studentInput struct {
	StudentNo      string `json:"student_no" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Surname        string `json:"surname" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	ContactDetails string `json:"contact_details" binding:"required"`
	ResName        string `json:"res_name"`
	StreetName     string `json:"street_name"`
	HouseNumber    string `json:"house_number"`
}

// GetStudents lists the student roster with residence addresses.
func GetStudents(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var students []models.Student
		if err := db.Preload("ResAddress").Find(&students).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch students"})
			return
		}
		c.JSON(200, students)
	}
}

// AddStudent registers a student on behalf of an admin with a default
// password.
func AddStudent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input studentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		res := models.ResAddress{
			Name:        input.ResName,
			StreetName:  input.StreetName,
			HouseNumber: input.HouseNumber,
		}
		if err := tx.Create(&res).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to create student"})
			return
		}

		student := models.Student{
			StudentNo:      input.StudentNo,
			Name:           input.Name,
			Surname:        input.Surname,
			Email:          input.Email,
			ContactDetails: input.ContactDetails,
			ResID:          res.ID,
			Role:           "student",
		}
		if err := student.SetPassword("Password123"); err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to create student"})
			return
		}

		if err := tx.Create(&student).Error; err != nil {
			tx.Rollback()
			if isDuplicateKey(err) {
				c.JSON(409, gin.H{"error": "Student with this student number or email already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create student"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create student"})
			return
		}

		c.JSON(201, gin.H{
			"message": "Student added successfully",
			"student": student,
		})
	}
}

// UpdateStudent edits a student's profile and residence address.
func UpdateStudent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID, ok := parseStudentID(c)
		if !ok {
			return
		}

		var input studentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var student models.Student
		if err := db.Preload("ResAddress").First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Student not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch student"})
			return
		}

		student.StudentNo = input.StudentNo
		student.Name = input.Name
		student.Surname = input.Surname
		student.Email = input.Email
		student.ContactDetails = input.ContactDetails

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Save(&student).Error; err != nil {
			tx.Rollback()
			if isDuplicateKey(err) {
				c.JSON(409, gin.H{"error": "Student with this student number or email already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update student"})
			return
		}

		if input.ResName != "" || input.StreetName != "" || input.HouseNumber != "" {
			if err := tx.Model(&models.ResAddress{}).
				Where("id = ?", student.ResID).
				Updates(map[string]interface{}{
					"name":         input.ResName,
					"street_name":  input.StreetName,
					"house_number": input.HouseNumber,
				}).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update student"})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update student"})
			return
		}

		c.JSON(200, gin.H{
			"message": "Student updated successfully",
			"student": student,
		})
	}
}

// DeleteStudent removes a student together with their ride history. Both
// deletes are hard; a removed account leaves no soft-deleted request rows
// behind.
func DeleteStudent(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID, ok := parseStudentID(c)
		if !ok {
			return
		}

		var student models.Student
		if err := db.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Student not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch student"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Unscoped().
			Where("student_id = ?", student.ID).
			Delete(&models.RideRequest{}).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to delete student"})
			return
		}

		if err := tx.Unscoped().Delete(&student).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to delete student"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete student"})
			return
		}

		c.JSON(200, gin.H{"message": "Student deleted successfully"})
	}
}

func parseStudentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid student ID"})
		return 0, false
	}
	return uint(id), true
}
