package enums

import "fmt"

// DriverAvailability reflects whether a driver is accepting work.
type DriverAvailability string

const (
	DriverAvailabilityOnline  DriverAvailability = "online"
	DriverAvailabilityOffline DriverAvailability = "offline"
)

// IsValid reports whether the value is a known DriverAvailability.
func (d DriverAvailability) IsValid() bool {
	return d == DriverAvailabilityOnline || d == DriverAvailabilityOffline
}

// ParseDriverAvailability converts raw input into a DriverAvailability.
func ParseDriverAvailability(value string) (DriverAvailability, error) {
	switch DriverAvailability(value) {
	case DriverAvailabilityOnline:
		return DriverAvailabilityOnline, nil
	case DriverAvailabilityOffline:
		return DriverAvailabilityOffline, nil
	}
	return "", fmt.Errorf("invalid driver availability %q", value)
}
