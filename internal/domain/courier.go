package domain

import "regexp"

type (
	// CourierAvailability represents whether a courier can take new work.
	CourierAvailability string
)

// Courier represents a delivery courier. EarningsCents only ever grows;
// administrative corrections are out of scope here.
type Courier struct {
	ID            int64
	Name          string
	Phone         string
	Availability  CourierAvailability
	EarningsCents int64
}

// rePhone is a regex to validate phone numbers
var rePhone = regexp.MustCompile(`^\+[0-9]{11}$`)

// ValidatePhone validates the phone number format
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
