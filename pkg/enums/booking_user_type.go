package enums

import "fmt"

// BookingUserType discriminates authenticated bookings from guest bookings.
type BookingUserType string

const (
	BookingUserTypeAuthenticated BookingUserType = "authenticated"
	BookingUserTypeGuest         BookingUserType = "guest"
)

// IsValid reports whether the value is a known BookingUserType.
func (b BookingUserType) IsValid() bool {
	return b == BookingUserTypeAuthenticated || b == BookingUserTypeGuest
}

// ParseBookingUserType converts raw input into a BookingUserType.
func ParseBookingUserType(value string) (BookingUserType, error) {
	switch BookingUserType(value) {
	case BookingUserTypeAuthenticated:
		return BookingUserTypeAuthenticated, nil
	case BookingUserTypeGuest:
		return BookingUserTypeGuest, nil
	}
	return "", fmt.Errorf("invalid booking user type %q", value)
}
