package enums

import "fmt"

// ShipmentStatus tracks the lifecycle of a shipment.
type ShipmentStatus string

const (
	ShipmentStatusPending        ShipmentStatus = "pending"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusFailed         ShipmentStatus = "failed"
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPending,
	ShipmentStatusInTransit,
	ShipmentStatusOutForDelivery,
	ShipmentStatusDelivered,
	ShipmentStatusFailed,
	ShipmentStatusCancelled,
}

// String implements fmt.Stringer.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentStatus.
func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s ShipmentStatus) IsTerminal() bool {
	switch s {
	case ShipmentStatusDelivered, ShipmentStatusFailed, ShipmentStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the forward transition from s to next is allowed.
// Forward moves follow pending -> in_transit -> out_for_delivery -> delivered;
// failed and cancelled are reachable from any non-terminal state.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case ShipmentStatusFailed, ShipmentStatusCancelled:
		return true
	case ShipmentStatusInTransit:
		return s == ShipmentStatusPending
	case ShipmentStatusOutForDelivery:
		return s == ShipmentStatusInTransit
	case ShipmentStatusDelivered:
		return s == ShipmentStatusOutForDelivery
	default:
		return false
	}
}

// ParseShipmentStatus converts raw input into a ShipmentStatus.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
