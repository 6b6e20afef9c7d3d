package shipments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// BookInput carries everything needed to create a booking. UserID is set
// from the access token for authenticated bookings and left nil for guests.
type BookInput struct {
	UserID                *uuid.UUID
	GuestName             string
	GuestPhone            string
	GuestEmail            string
	PickupAddress         string
	DeliveryAddress       string
	PickupLat             *float64
	PickupLng             *float64
	DeliveryLat           *float64
	DeliveryLng           *float64
	ScheduledPickupDate   *time.Time
	EstimatedDeliveryDate *time.Time
	Weight                float64
	Dimensions            *string
	SpecialInstructions   *string
	VehicleType           string
	Price                 decimal.Decimal
	Distance              *float64
	Notes                 *string
}

// AssignInput binds a driver to a shipment. The driver's fleet vehicle, if
// one is registered, is resolved and bound automatically.
type AssignInput struct {
	ShipmentID            uuid.UUID
	DriverID              uuid.UUID
	EstimatedDeliveryDate *time.Time
	Notes                 *string
}

// StatusInput advances a shipment through its lifecycle.
type StatusInput struct {
	ShipmentID uuid.UUID
	Next       enums.ShipmentStatus
	ActorRole  string
	DriverID   *uuid.UUID
}

// Filters describe the inputs supported by the admin shipment list.
type Filters struct {
	Status      *enums.ShipmentStatus
	UserID      *uuid.UUID
	DriverID    *uuid.UUID
	VehicleType string
	Query       string
}

// List wraps a page of shipments plus the next page cursor.
type List struct {
	Shipments  []models.Shipment `json:"shipments"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// TrackingView is the public tracking projection. It omits customer
// contact fields so the tracking number alone never leaks guest identity.
type TrackingView struct {
	TrackingNumber        string               `json:"trackingNumber"`
	Status                enums.ShipmentStatus `json:"status"`
	PickupAddress         string               `json:"pickupAddress"`
	DeliveryAddress       string               `json:"deliveryAddress"`
	ScheduledPickupDate   *time.Time           `json:"scheduledPickupDate,omitempty"`
	EstimatedDeliveryDate *time.Time           `json:"estimatedDeliveryDate,omitempty"`
	ActualPickupDate      *time.Time           `json:"actualPickupDate,omitempty"`
	ActualDeliveryDate    *time.Time           `json:"actualDeliveryDate,omitempty"`
	VehicleType           string               `json:"vehicleType"`
	Price                 decimal.Decimal      `json:"price"`
	CreatedAt             time.Time            `json:"createdAt"`
}

// NewTrackingView projects a shipment into its public tracking shape.
func NewTrackingView(s *models.Shipment) TrackingView {
	return TrackingView{
		TrackingNumber:        s.TrackingNumber,
		Status:                s.Status,
		PickupAddress:         s.PickupAddress,
		DeliveryAddress:       s.DeliveryAddress,
		ScheduledPickupDate:   s.ScheduledPickupDate,
		EstimatedDeliveryDate: s.EstimatedDeliveryDate,
		ActualPickupDate:      s.ActualPickupDate,
		ActualDeliveryDate:    s.ActualDeliveryDate,
		VehicleType:           s.VehicleType,
		Price:                 s.Price,
		CreatedAt:             s.CreatedAt,
	}
}
