package commands

import (
	"errors"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/tracking"
	"swiftlogistics/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand carries one driver position report.
type ReportLocationCommand struct {
	location tracking.DriverLocation

	guard guard.ConstructorGuard
}

// NewReportLocationCommand validates the raw report values and creates the
// command. Heading is in degrees [0, 360), speed in km/h.
func NewReportLocationCommand(
	driverID kernel.UUID,
	latitude float64,
	longitude float64,
	speedKmh float64,
	headingDeg float64,
	reportedAt time.Time,
) (ReportLocationCommand, error) {
	position, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return ReportLocationCommand{}, err
	}
	location, err := tracking.NewDriverLocation(driverID, position, speedKmh, headingDeg, reportedAt)
	if err != nil {
		return ReportLocationCommand{}, err
	}
	return ReportLocationCommand{
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Location returns the validated position report.
func (c *ReportLocationCommand) Location() tracking.DriverLocation {
	return c.location
}

// Validate ensures the command was created through the constructor.
func (c *ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}
