// Package ports defines the contracts between the core and infrastructure:
// repositories, the unit of work, back-office adapters, geocoding, the
// notification publisher, and the transient tracking stores.
package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNumber retrieves an order by its external reference.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	// Assignment uses this to snapshot the IN_WAREHOUSE pool.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
