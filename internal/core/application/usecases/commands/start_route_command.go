package commands

import (
	"errors"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/guard"
)

var ErrStartRouteCommandIsNotConstructed = errors.New(
	"StartRouteCommand must be created via NewStartRouteCommand constructor",
)

// StartRouteCommand marks the moment a driver begins driving the planned
// route: the route goes ACTIVE and every order on it goes OUT_FOR_DELIVERY.
type StartRouteCommand struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartRouteCommand creates a command to start the driver's planned route.
func NewStartRouteCommand(driverID kernel.UUID) (StartRouteCommand, error) {
	if err := driverID.Validate(); err != nil {
		return StartRouteCommand{}, err
	}
	return StartRouteCommand{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// DriverID returns the driver starting the route.
func (c *StartRouteCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Validate ensures the command was created through the constructor.
func (c *StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}
