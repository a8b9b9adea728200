package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/order"
)

// ClientManagementClient is the CMS back-office contract. Submit registers
// the order with the client-management system; CancelSubmission is its
// best-effort compensation.
type ClientManagementClient interface {
	// Submit registers the order and returns the CMS acknowledgement reference.
	Submit(ctx context.Context, aggregate *order.Order) (string, error)

	// CancelSubmission withdraws a previously submitted order.
	CancelSubmission(ctx context.Context, aggregate *order.Order) error
}

// WarehouseClient is the WMS back-office contract. AddPackage registers
// the physical package; RemovePackage is its best-effort compensation.
type WarehouseClient interface {
	// AddPackage registers the order's package and returns the package reference.
	AddPackage(ctx context.Context, aggregate *order.Order) (string, error)

	// RemovePackage withdraws a previously added package.
	RemovePackage(ctx context.Context, aggregate *order.Order) error
}

// RoutePlanningClient is the ROS back-office contract. PlanRoute requests
// an external delivery plan; CancelRoute is its best-effort compensation.
type RoutePlanningClient interface {
	// PlanRoute requests planning for the order and returns the plan reference.
	PlanRoute(ctx context.Context, aggregate *order.Order) (string, error)

	// CancelRoute withdraws a previously planned route.
	CancelRoute(ctx context.Context, aggregate *order.Order) error
}
