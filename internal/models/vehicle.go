package models

import (
	"gorm.io/gorm"
)

// Vehicle assignment flag values. The flag mirrors DriverID nullness.
const (
	VehicleAssigned   = "Y"
	VehicleUnassigned = "N"
)

type Vehicle struct {
	gorm.Model
	VehicleModel string  `json:"model" gorm:"column:vehicle_model;not null"`
	PlateNumber  string  `json:"plateNumber" gorm:"column:plate_number;unique;not null"`
	Capacity     int     `json:"capacity" gorm:"column:capacity;not null"`
	DriverID     *uint   `json:"driverId,omitempty" gorm:"column:driver_id"`
	Assigned     string  `json:"assigned" gorm:"column:assigned;not null;default:'N'"`
	Driver       *Driver `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
