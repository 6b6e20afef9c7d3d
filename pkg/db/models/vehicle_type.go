package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// VehicleType is a priced service-tier catalog entry. Shipments snapshot the
// VehicleType string at booking time rather than referencing this row, so
// catalog edits never rewrite historical bookings.
type VehicleType struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VehicleType   string            `gorm:"column:vehicle_type;type:text;not null;uniqueIndex" json:"vehicleType"`
	Label         string            `gorm:"column:label;not null" json:"label"`
	Capacity      string            `gorm:"column:capacity" json:"capacity"`
	BasePrice     decimal.Decimal   `gorm:"column:base_price;type:numeric(12,2);not null;default:0" json:"basePrice"`
	PricePerKm    decimal.Decimal   `gorm:"column:price_per_km;type:numeric(12,2);not null;default:0" json:"pricePerKm"`
	StartingPrice decimal.Decimal   `gorm:"column:starting_price;type:numeric(12,2);not null;default:0" json:"startingPrice"`
	IconKey       enums.VehicleIcon `gorm:"column:icon_key;type:text;not null;default:'default'" json:"iconKey"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName pins the catalog table to vehicle_types.
func (VehicleType) TableName() string { return "vehicle_types" }
