package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/models"
)

// GetProfile returns the authenticated user's own record, dispatched on
// the role claim.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("role")

		switch role {
		case "student":
			var student models.Student
			if err := db.Preload("ResAddress").First(&student, userID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Student not found"})
				return
			}
			c.JSON(200, gin.H{"role": role, "profile": student})
		case "driver":
			var driver models.Driver
			if err := db.First(&driver, userID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Driver not found"})
				return
			}
			c.JSON(200, gin.H{"role": role, "profile": driver})
		case "admin":
			var admin models.Admin
			if err := db.First(&admin, userID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Admin not found"})
				return
			}
			c.JSON(200, gin.H{"role": role, "profile": admin})
		default:
			c.JSON(403, gin.H{"error": "Unknown role"})
		}
	}
}

type profileUpdateInput struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	ContactDetails string `json:"contact_details"`
	Password       string `json:"password"`
}

// UpdateProfile lets a user edit their own contact fields and password.
// Email and identifying numbers stay admin-managed.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("role")

		var input profileUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		switch role {
		case "student":
			var student models.Student
			if err := db.First(&student, userID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Student not found"})
				return
			}
			applyProfileFields(&student.Name, &student.Surname, &student.ContactDetails, input)
			if input.Password != "" {
				if err := student.SetPassword(input.Password); err != nil {
					c.JSON(500, gin.H{"error": "Failed to update profile"})
					return
				}
			}
			if err := db.Save(&student).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
			c.JSON(200, gin.H{"message": "Profile updated successfully", "profile": student})
		case "driver":
			var driver models.Driver
			if err := db.First(&driver, userID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Driver not found"})
				return
			}
			applyProfileFields(&driver.Name, &driver.Surname, &driver.ContactDetails, input)
			if input.Password != "" {
				if err := driver.SetPassword(input.Password); err != nil {
					c.JSON(500, gin.H{"error": "Failed to update profile"})
					return
				}
			}
			if err := db.Save(&driver).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
			c.JSON(200, gin.H{"message": "Profile updated successfully", "profile": driver})
		case "admin":
			var admin models.Admin
			if err := db.First(&admin, userID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Admin not found"})
				return
			}
			applyProfileFields(&admin.Name, &admin.Surname, &admin.ContactDetails, input)
			if input.Password != "" {
				if err := admin.SetPassword(input.Password); err != nil {
					c.JSON(500, gin.H{"error": "Failed to update profile"})
					return
				}
			}
			if err := db.Save(&admin).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
			c.JSON(200, gin.H{"message": "Profile updated successfully", "profile": admin})
		default:
			c.JSON(403, gin.H{"error": "Unknown role"})
		}
	}
}

func applyProfileFields(name, surname, contact *string, input profileUpdateInput) {
	if input.Name != "" {
		*name = input.Name
	}
	if input.Surname != "" {
		*surname = input.Surname
	}
	if input.ContactDetails != "" {
		*contact = input.ContactDetails
	}
}
