package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for optimized routes.
type RouteRepository interface {
	// Add persists a new route aggregate to storage.
	Add(ctx context.Context, aggregate *route.OptimizedRoute) error

	// Update persists changes to an existing route aggregate.
	Update(ctx context.Context, aggregate *route.OptimizedRoute) error

	// Get retrieves a route aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.OptimizedRoute, error)

	// GetActiveByDriver retrieves the driver's route in PLANNED or ACTIVE
	// status. At most one such route exists per driver.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*route.OptimizedRoute, error)

	// GetAllInStatus retrieves all routes currently in the given status.
	GetAllInStatus(ctx context.Context, status route.Status) ([]*route.OptimizedRoute, error)
}
