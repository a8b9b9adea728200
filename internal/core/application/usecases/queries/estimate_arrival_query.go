// Package queries contains read-only operations over the persistent and
// transient state: arrival estimates and the live delivery dashboard view.
package queries

import (
	"errors"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
	"swiftlogistics/internal/pkg/guard"
)

var ErrEstimateArrivalQueryIsNotConstructed = errors.New(
	"EstimateArrivalQuery must be created via NewEstimateArrivalQuery constructor",
)

// EstimateArrivalQuery asks when a driver would reach a destination
// address from their last reported position.
type EstimateArrivalQuery struct {
	driverID           kernel.UUID
	destinationAddress string

	guard guard.ConstructorGuard
}

// NewEstimateArrivalQuery creates an arrival estimate query.
func NewEstimateArrivalQuery(driverID kernel.UUID, destinationAddress string) (EstimateArrivalQuery, error) {
	if err := driverID.Validate(); err != nil {
		return EstimateArrivalQuery{}, err
	}
	if destinationAddress == "" {
		return EstimateArrivalQuery{}, errs.NewValueIsRequiredError("destinationAddress")
	}
	return EstimateArrivalQuery{
		driverID:           driverID,
		destinationAddress: destinationAddress,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

// DriverID returns the driver whose arrival is estimated.
func (q EstimateArrivalQuery) DriverID() kernel.UUID {
	return q.driverID
}

// DestinationAddress returns the free-text destination.
func (q EstimateArrivalQuery) DestinationAddress() string {
	return q.destinationAddress
}

// Validate ensures the query was created through the constructor.
func (q EstimateArrivalQuery) Validate() error {
	return q.guard.Validate(ErrEstimateArrivalQueryIsNotConstructed)
}
