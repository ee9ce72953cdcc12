package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin is a staff account managing the roster and reports.
type Admin struct {
	gorm.Model
	Name           string `json:"name" gorm:"column:name;not null"`
	Surname        string `json:"surname" gorm:"column:surname;not null"`
	Email          string `json:"email" gorm:"column:email;unique;not null"`
	ContactDetails string `json:"contactDetails" gorm:"column:contact_details"`
	IDNumber       string `json:"idNumber" gorm:"column:id_number;unique"`
	Status         string `json:"status" gorm:"column:status;not null;default:'active'"`
	PasswordHash   string `json:"-" gorm:"column:password_hash;not null"`
	Role           string `json:"role" gorm:"column:role;not null;default:'admin'"`
}

func (Admin) TableName() string {
	return "admins"
}

func (a *Admin) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *Admin) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}
