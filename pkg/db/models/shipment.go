package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// Shipment is the booking record. Rows are never hard-deleted; terminal
// statuses close the lifecycle but keep the historical record intact.
// Exactly one of UserID or the guest triple is populated, matching UserType.
type Shipment struct {
	ID                    uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TrackingNumber        string                `gorm:"column:tracking_number;type:text;not null;uniqueIndex" json:"trackingNumber"`
	Status                enums.ShipmentStatus  `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	PickupAddress         string                `gorm:"column:pickup_address;not null" json:"pickupAddress"`
	DeliveryAddress       string                `gorm:"column:delivery_address;not null" json:"deliveryAddress"`
	PickupLat             *float64              `gorm:"column:pickup_lat" json:"pickupLat,omitempty"`
	PickupLng             *float64              `gorm:"column:pickup_lng" json:"pickupLng,omitempty"`
	DeliveryLat           *float64              `gorm:"column:delivery_lat" json:"deliveryLat,omitempty"`
	DeliveryLng           *float64              `gorm:"column:delivery_lng" json:"deliveryLng,omitempty"`
	ScheduledPickupDate   *time.Time            `gorm:"column:scheduled_pickup_date" json:"scheduledPickupDate,omitempty"`
	EstimatedDeliveryDate *time.Time            `gorm:"column:estimated_delivery_date" json:"estimatedDeliveryDate,omitempty"`
	ActualPickupDate      *time.Time            `gorm:"column:actual_pickup_date" json:"actualPickupDate,omitempty"`
	ActualDeliveryDate    *time.Time            `gorm:"column:actual_delivery_date" json:"actualDeliveryDate,omitempty"`
	Weight                float64               `gorm:"column:weight;not null" json:"weight"`
	Dimensions            *string               `gorm:"column:dimensions" json:"dimensions,omitempty"`
	SpecialInstructions   *string               `gorm:"column:special_instructions" json:"specialInstructions,omitempty"`
	UserID                *uuid.UUID            `gorm:"column:user_id;type:uuid;index" json:"userId,omitempty"`
	VehicleID             *uuid.UUID            `gorm:"column:vehicle_id;type:uuid;index" json:"vehicleId,omitempty"`
	DriverID              *uuid.UUID            `gorm:"column:driver_id;type:uuid;index" json:"driverId,omitempty"`
	Price                 decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	PaymentStatus         enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"paymentStatus"`
	UserType              enums.BookingUserType `gorm:"column:user_type;type:text;not null" json:"userType"`
	GuestName             *string               `gorm:"column:guest_name" json:"guestName,omitempty"`
	GuestPhone            *string               `gorm:"column:guest_phone" json:"guestPhone,omitempty"`
	GuestEmail            *string               `gorm:"column:guest_email" json:"guestEmail,omitempty"`
	VehicleType           string                `gorm:"column:vehicle_type;not null" json:"vehicleType"`
	Distance              *float64              `gorm:"column:distance" json:"distance,omitempty"`
	Notes                 *string               `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt             time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Assigned reports whether a driver has been bound to the shipment.
func (s Shipment) Assigned() bool {
	return s.DriverID != nil
}
