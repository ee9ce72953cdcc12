package models

import (
	"time"

	"gorm.io/gorm"
)

// RideRequest is a student's trip booking. Status values are owned by the
// lifecycle package; the column stores them verbatim (Pending, Assigned,
// In_progress, Completed, Cancelled).
type RideRequest struct {
	gorm.Model
	StudentID      uint      `json:"studentId" gorm:"column:student_id;not null"`
	DriverID       *uint     `json:"driverId,omitempty" gorm:"column:driver_id"`
	PickupLocation string    `json:"pickupLocation" gorm:"column:pickup_location;not null"`
	Destination    string    `json:"destination" gorm:"column:destination;not null"`
	PickupTime     time.Time `json:"pickupTime" gorm:"column:pickup_time;not null"`
	Notes          string    `json:"notes,omitempty" gorm:"column:notes"`
	Status         string    `json:"status" gorm:"column:status;not null;default:'Pending'"`
	Rating         *int      `json:"rating,omitempty" gorm:"column:rating"`
	Notified       bool      `json:"notified" gorm:"column:notified;not null;default:false"`
	Student        *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Driver         *Driver   `json:"driver,omitempty" gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (RideRequest) TableName() string {
	return "ride_requests"
}
