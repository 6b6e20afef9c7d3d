package enums

// VehicleIcon keys the client-side icon shown for a vehicle type.
type VehicleIcon string

const (
	VehicleIconTruck     VehicleIcon = "truck"
	VehicleIconBike      VehicleIcon = "bike"
	VehicleIconCar       VehicleIcon = "car"
	VehicleIconVan       VehicleIcon = "van"
	VehicleIconBus       VehicleIcon = "bus"
	VehicleIconTractor   VehicleIcon = "tractor"
	VehicleIconContainer VehicleIcon = "container"
	VehicleIconDefault   VehicleIcon = "default"
)

var validVehicleIcons = []VehicleIcon{
	VehicleIconTruck,
	VehicleIconBike,
	VehicleIconCar,
	VehicleIconVan,
	VehicleIconBus,
	VehicleIconTractor,
	VehicleIconContainer,
	VehicleIconDefault,
}

// IsValid reports whether the value is a known VehicleIcon.
func (v VehicleIcon) IsValid() bool {
	for _, candidate := range validVehicleIcons {
		if candidate == v {
			return true
		}
	}
	return false
}

// NormalizeVehicleIcon maps unknown keys to the default icon.
func NormalizeVehicleIcon(value string) VehicleIcon {
	icon := VehicleIcon(value)
	if icon.IsValid() {
		return icon
	}
	return VehicleIconDefault
}
