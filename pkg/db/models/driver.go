package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// Driver is the courier identity plus the vehicle it registered with.
// Verification is not stored here; it derives from the associated
// DriverDocument record (see Driver.IsVerified).
type Driver struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName          string                   `gorm:"column:first_name;not null" json:"firstName"`
	LastName           string                   `gorm:"column:last_name;not null" json:"lastName"`
	Email              string                   `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	Phone              string                   `gorm:"column:phone;type:text;not null;uniqueIndex" json:"phone"`
	Active             bool                     `gorm:"column:active;not null;default:true" json:"active"`
	AvailabilityStatus enums.DriverAvailability `gorm:"column:availability_status;type:text;not null;default:'offline'" json:"availabilityStatus"`
	ProfilePicture     *string                  `gorm:"column:profile_picture" json:"profilePicture,omitempty"`
	VehicleType        string                   `gorm:"column:vehicle_type" json:"vehicleType"`
	VehicleCapacity    *float64                 `gorm:"column:vehicle_capacity" json:"vehicleCapacity,omitempty"`
	VehicleNumber      *string                  `gorm:"column:vehicle_number;type:text;uniqueIndex" json:"vehicleNumber,omitempty"`
	LastLoginAt        *time.Time               `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	Document           *DriverDocument          `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"document,omitempty"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// FullName joins the driver's name parts for display.
func (d Driver) FullName() string {
	return d.FirstName + " " + d.LastName
}

// IsVerified derives the verification flag from the loaded document record.
// Drivers with no document record have never submitted and are unverified.
func (d Driver) IsVerified() bool {
	return d.Document != nil && d.Document.Status == enums.DocumentStatusVerified
}
