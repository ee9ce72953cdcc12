package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Driver availability values, stored as strings in the schema.
const (
	DriverAvailable    = "Available"
	DriverNotAvailable = "Not Available"
)

type Driver struct {
	gorm.Model
	Name               string `json:"name" gorm:"column:name;not null"`
	Surname            string `json:"surname" gorm:"column:surname;not null"`
	Email              string `json:"email" gorm:"column:email;unique;not null"`
	License            string `json:"license" gorm:"column:license;unique;not null"`
	ContactDetails     string `json:"contactDetails" gorm:"column:contact_details"`
	AvailabilityStatus string `json:"availabilityStatus" gorm:"column:availability_status;not null;default:'Not Available'"`
	PasswordHash       string `json:"-" gorm:"column:password_hash;not null"`
	Role               string `json:"role" gorm:"column:role;not null;default:'driver'"`
}

// TableName specifies the table name
func (Driver) TableName() string {
	return "drivers"
}

func (d *Driver) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.PasswordHash = string(hashedPassword)
	return nil
}

func (d *Driver) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password))
}
