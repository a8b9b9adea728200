package order

import (
	"fmt"

	"swiftlogistics/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions so orders always
// follow the fulfillment workflow.
//
// State transitions:
//
//	Submitted ──> Processing ──> InWarehouse ──> RoutePlanned ──> OutForDelivery ──> Delivered
//	     │             │              │               │                  │
//	     └─────────────┴──────────────┴───────────────┴──────────────────┴──> Failed
//
// Delivered and Failed are terminal: no further transitions are allowed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Submitted is the initial status when an order enters the system.
	Submitted

	// Processing indicates the order was accepted by the client-management
	// system and the fulfillment saga is under way.
	Processing

	// InWarehouse indicates the package was registered with the warehouse
	// and the order is awaiting driver assignment.
	InWarehouse

	// RoutePlanned indicates a delivery route covering the order exists.
	RoutePlanned

	// OutForDelivery indicates the assigned driver has started the route.
	OutForDelivery

	// Delivered indicates the package reached the recipient. Terminal.
	Delivered

	// Failed indicates fulfillment was aborted and compensated. Terminal,
	// reachable from any non-terminal status.
	Failed
)

// getStatusStrings returns string representations for all statuses.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Submitted:      "SUBMITTED",
		Processing:     "PROCESSING",
		InWarehouse:    "IN_WAREHOUSE",
		RoutePlanned:   "ROUTE_PLANNED",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Failed:         "FAILED",
	}
}

// getForwardSuccessors maps each status to the only status it may advance to.
// Failed is handled separately since it is reachable from any non-terminal.
func getForwardSuccessors() map[Status]Status {
	return map[Status]Status{
		Submitted:      Processing,
		Processing:     InWarehouse,
		InWarehouse:    RoutePlanned,
		RoutePlanned:   OutForDelivery,
		OutForDelivery: Delivered,
	}
}

// Validate checks if the Status value is one of the defined statuses.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s < Submitted || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-snake name of the status, matching the wire and
// persistence representation. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StatusFromString parses the upper-snake representation of a status.
// Used when reconstructing orders from persistence.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed
}

// TransitionTo validates and performs a transition to target.
//
// Valid transitions:
//   - the single forward successor of the current status
//   - Failed, from any non-terminal status
//
// Returns the new status, or an error when the transition would skip or
// revisit a stage of the fulfillment sequence.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if err := target.Validate(); err != nil {
		return 0, err
	}

	if target == Failed {
		if s.IsTerminal() {
			return 0, errs.NewValueIsInvalidErrorWithCause("status transition is invalid",
				fmt.Errorf("%s is terminal and cannot fail", s))
		}
		return Failed, nil
	}

	if successor, ok := getForwardSuccessors()[s]; ok && successor == target {
		return target, nil
	}

	return 0, errs.NewValueIsInvalidErrorWithCause("status transition is invalid",
		fmt.Errorf("cannot transition from %s to %s", s, target))
}
