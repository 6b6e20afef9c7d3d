package enums

import "fmt"

// VehicleStatus tracks the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusInUse        VehicleStatus = "in_use"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

var validVehicleStatuses = []VehicleStatus{
	VehicleStatusAvailable,
	VehicleStatusInUse,
	VehicleStatusMaintenance,
	VehicleStatusOutOfService,
}

// IsValid reports whether the value is a known VehicleStatus.
func (v VehicleStatus) IsValid() bool {
	for _, candidate := range validVehicleStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleStatus converts raw input into a VehicleStatus.
func ParseVehicleStatus(value string) (VehicleStatus, error) {
	for _, candidate := range validVehicleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle status %q", value)
}
