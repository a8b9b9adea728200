package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/driver"
	"swiftlogistics/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllInStatus retrieves all drivers currently in the given status.
	// Assignment uses this to list ACTIVE drivers.
	GetAllInStatus(ctx context.Context, status driver.Status) ([]*driver.Driver, error)
}
