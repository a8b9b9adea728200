package commands

import (
	"errors"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
	"swiftlogistics/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand confirms a delivery at one stop of the driver's
// active route. Acceptance is gated on the driver's reported position
// being inside the delivery geofence.
type CompleteDeliveryCommand struct {
	driverID kernel.UUID
	orderRef string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to confirm a delivery.
// orderRef is the order number printed on the package.
func NewCompleteDeliveryCommand(driverID kernel.UUID, orderRef string) (CompleteDeliveryCommand, error) {
	if err := driverID.Validate(); err != nil {
		return CompleteDeliveryCommand{}, err
	}
	if orderRef == "" {
		return CompleteDeliveryCommand{}, errs.NewValueIsRequiredError("orderRef")
	}
	return CompleteDeliveryCommand{
		driverID: driverID,
		orderRef: orderRef,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// DriverID returns the confirming driver.
func (c *CompleteDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

// OrderRef returns the order number being confirmed.
func (c *CompleteDeliveryCommand) OrderRef() string {
	return c.orderRef
}

// Validate ensures the command was created through the constructor.
func (c *CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}
