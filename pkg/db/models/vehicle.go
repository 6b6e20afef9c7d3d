package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// Vehicle is a physical fleet asset, distinct from the VehicleType catalog.
type Vehicle struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleNumber string              `gorm:"column:vehicle_number;type:text;not null;uniqueIndex" json:"vehicleNumber"`
	Type          string              `gorm:"column:type;not null" json:"type"`
	Model         string              `gorm:"column:model" json:"model"`
	LicensePlate  string              `gorm:"column:license_plate;type:text;not null;uniqueIndex" json:"licensePlate"`
	Capacity      *float64            `gorm:"column:capacity" json:"capacity,omitempty"`
	MaxWeight     *float64            `gorm:"column:max_weight" json:"maxWeight,omitempty"`
	CurrentLat    *float64            `gorm:"column:current_lat" json:"currentLat,omitempty"`
	CurrentLng    *float64            `gorm:"column:current_lng" json:"currentLng,omitempty"`
	Status        enums.VehicleStatus `gorm:"column:status;type:text;not null;default:'available'" json:"status"`
	DriverID      *uuid.UUID          `gorm:"column:driver_id;type:uuid;index" json:"driverId,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
