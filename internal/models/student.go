package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResAddress is a student's residence address record.
type ResAddress struct {
	gorm.Model
	Name        string `json:"name" gorm:"column:name;not null"`
	StreetName  string `json:"streetName" gorm:"column:street_name;not null"`
	HouseNumber string `json:"houseNumber" gorm:"column:house_number;not null"`
}

func (ResAddress) TableName() string {
	return "res_addresses"
}

type Student struct {
	gorm.Model
	StudentNo      string      `json:"studentNumber" gorm:"column:student_no;unique;not null"`
	Name           string      `json:"name" gorm:"column:name;not null"`
	Surname        string      `json:"surname" gorm:"column:surname;not null"`
	Email          string      `json:"email" gorm:"column:email;unique;not null"`
	ContactDetails string      `json:"contactDetails" gorm:"column:contact_details"`
	ResID          uint        `json:"resId" gorm:"column:res_id;not null"`
	PasswordHash   string      `json:"-" gorm:"column:password_hash;not null"`
	Role           string      `json:"role" gorm:"column:role;not null;default:'student'"`
	ResAddress     *ResAddress `json:"resAddress,omitempty" gorm:"foreignKey:ResID"`
}

// TableName specifies the table name
func (Student) TableName() string {
	return "students"
}

func (s *Student) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hashedPassword)
	return nil
}

func (s *Student) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
}
