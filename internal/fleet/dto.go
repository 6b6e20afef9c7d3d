package fleet

import (
	"github.com/google/uuid"

	"github.com/swifthaul/swifthaul-backend/pkg/enums"
)

// CreateInput carries a new fleet vehicle.
type CreateInput struct {
	VehicleNumber string
	Type          string
	Model         string
	LicensePlate  string
	Capacity      *float64
	MaxWeight     *float64
	DriverID      *uuid.UUID
}

// UpdateInput mutates a fleet vehicle. Pointer fields left nil are
// untouched. DriverID accepts an explicit null to unassign.
type UpdateInput struct {
	Type         *string
	Model        *string
	LicensePlate *string
	Capacity     *float64
	MaxWeight    *float64
	Status       *enums.VehicleStatus
	DriverID     *uuid.UUID
	ClearDriver  bool
	CurrentLat   *float64
	CurrentLng   *float64
}
