package drivers

import (
	"github.com/swifthaul/swifthaul-backend/pkg/db/models"
	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// RegisterInput carries the onboarding fields for a new driver account.
// The account starts offline and unverified until documents are reviewed.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	VehicleType     string
	VehicleCapacity *float64
	VehicleNumber   *string
}

// UpdateProfileInput uses pointer fields so absent keys leave the stored
// value untouched.
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	Email           *string
	ProfilePicture  *string
	VehicleType     *string
	VehicleCapacity *float64
	VehicleNumber   *string
}

// ListFilters describe the admin driver listing inputs.
type ListFilters struct {
	Query  string
	Active *bool
	Status *enums.DriverAvailability
}

// List wraps a page of drivers plus the total row count for the filter.
type List struct {
	Drivers []models.Driver `json:"drivers"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// ProfileView is the driver-facing profile projection, including the
// derived verification flag.
type ProfileView struct {
	models.Driver
	IsVerified bool `json:"isVerified"`
}

// NewProfileView projects a driver into its profile shape.
func NewProfileView(d *models.Driver) ProfileView {
	return ProfileView{Driver: *d, IsVerified: d.IsVerified()}
}
