package route

import (
	"swiftlogistics/internal/pkg/errs"
)

// Status describes an OptimizedRoute's lifecycle.
type Status int

const (
	// StatusUnknown is the zero value and is always invalid.
	StatusUnknown Status = iota
	// Planned routes were produced by assignment but not yet started.
	Planned
	// Active routes are being driven right now.
	Active
	// Completed routes had all delivery points completed.
	Completed
	// Cancelled routes were abandoned before completion.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Planned:   "PLANNED",
		Active:    "ACTIVE",
		Completed: "COMPLETED",
		Cancelled: "CANCELLED",
	}
}

// Validate returns an error for statuses outside the defined set.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("routeStatus")
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
	return StatusUnknown, errs.NewValueIsInvalidError("routeStatus")
}

// Kind records how a route's point ordering was produced.
type Kind int

const (
	// KindUnknown is the zero value and is always invalid.
	KindUnknown Kind = iota
	// Optimized routes were ordered by the nearest-neighbor heuristic.
	Optimized
	// Fallback routes keep delivery points in their original input order.
	// Produced when optimization cannot run, e.g. on missing coordinates.
	Fallback
	// Recalculated routes were rebuilt mid-delivery.
	Recalculated
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		Optimized:    "OPTIMIZED",
		Fallback:     "FALLBACK",
		Recalculated: "RECALCULATED",
	}
}

// Validate returns an error for kinds outside the defined set.
func (k Kind) Validate() error {
	if _, ok := getKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidError("routeKind")
	}
	return nil
}

// String returns the canonical upper-snake name.
func (k Kind) String() string {
	return getKindStrings()[k]
}

// KindFromString parses the canonical upper-snake name.
func KindFromString(name string) (Kind, error) {
	for kind, str := range getKindStrings() {
		if str == name {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidError("routeKind")
}
