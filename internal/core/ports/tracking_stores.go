package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/tracking"
)

// LocationStore holds the latest reported location per driver. Entries are
// overwritten on every report; the core keeps no location history.
type LocationStore interface {
	// Set overwrites the driver's latest location.
	Set(ctx context.Context, location tracking.DriverLocation) error

	// Get returns the driver's latest location. The second return value is
	// false when the driver has never reported a position.
	Get(ctx context.Context, driverID kernel.UUID) (tracking.DriverLocation, bool, error)
}

// ProgressStore holds the per-driver progress of the active route. At most
// one entry exists per driver; beginning tracking for a new route replaces
// the previous entry.
type ProgressStore interface {
	// Set replaces the driver's route progress.
	Set(ctx context.Context, progress *tracking.RouteProgress) error

	// Get returns the driver's route progress. The second return value is
	// false when no route is being tracked for the driver.
	Get(ctx context.Context, driverID kernel.UUID) (*tracking.RouteProgress, bool, error)

	// Delete removes the driver's route progress when the route ends.
	Delete(ctx context.Context, driverID kernel.UUID) error
}
