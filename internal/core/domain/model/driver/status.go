package driver

import (
	"swiftlogistics/internal/pkg/errs"
)

// Status describes a driver's availability for delivery work. Only Active
// drivers participate in assignment.
type Status int

const (
	// StatusUnknown is the zero value and is always invalid.
	StatusUnknown Status = iota
	// Active drivers are on shift and eligible for assignment.
	Active
	// Inactive drivers are registered but not on shift.
	Inactive
	// OnBreak drivers are on shift but temporarily unavailable.
	OnBreak
	// OffDuty drivers finished their shift.
	OffDuty
	// Unavailable drivers are blocked for operational reasons.
	Unavailable
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Active:      "ACTIVE",
		Inactive:    "INACTIVE",
		OnBreak:     "ON_BREAK",
		OffDuty:     "OFF_DUTY",
		Unavailable: "UNAVAILABLE",
	}
}

// Validate returns an error for statuses outside the defined set.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("driverStatus")
	}
	return nil
}

// String returns the canonical upper-snake name.
func (s Status) String() string {
	return getStatusStrings()[s]
}

// StatusFromString parses the canonical upper-snake name.
func StatusFromString(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("driverStatus")
}
