package vehicletypes

import (
	"github.com/shopspring/decimal"

	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// CreateInput carries a new catalog entry.
type CreateInput struct {
	VehicleType   string
	Label         string
	Capacity      string
	BasePrice     decimal.Decimal
	PricePerKm    decimal.Decimal
	StartingPrice decimal.Decimal
	IconKey       enums.VehicleIcon
}

// UpdateInput mutates a catalog entry. Pointer fields left nil are
// untouched. The vehicle_type key itself is immutable because shipments
// snapshot it at booking time.
type UpdateInput struct {
	Label         *string
	Capacity      *string
	BasePrice     *decimal.Decimal
	PricePerKm    *decimal.Decimal
	StartingPrice *decimal.Decimal
	IconKey       *enums.VehicleIcon
	IsActive      *bool
}

// Pricing is the derived pricing block on the public catalog listing.
type Pricing struct {
	BasePrice     decimal.Decimal `json:"basePrice"`
	PricePerKm    decimal.Decimal `json:"pricePerKm"`
	StartingPrice decimal.Decimal `json:"startingPrice"`
}

// CatalogItem is the public projection of a catalog entry.
type CatalogItem struct {
	VehicleType  string            `json:"vehicleType"`
	Label        string            `json:"label"`
	Capacity     string            `json:"capacity,omitempty"`
	IconKey      enums.VehicleIcon `json:"iconKey"`
	Pricing      Pricing           `json:"pricing"`
	DisplayPrice string            `json:"displayPrice"`
}

// NewCatalogItem projects a catalog row into its public shape.
func NewCatalogItem(vt *models.VehicleType) CatalogItem {
	return CatalogItem{
		VehicleType: vt.VehicleType,
		Label:       vt.Label,
		Capacity:    vt.Capacity,
		IconKey:     vt.IconKey,
		Pricing: Pricing{
			BasePrice:     vt.BasePrice,
			PricePerKm:    vt.PricePerKm,
			StartingPrice: vt.StartingPrice,
		},
		DisplayPrice: "From $" + vt.StartingPrice.String(),
	}
}
