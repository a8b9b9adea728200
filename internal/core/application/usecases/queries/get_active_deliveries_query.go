package queries

import (
	"errors"
	"time"

	"swiftlogistics/internal/pkg/guard"
)

var ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
	"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor",
)

// GetActiveDeliveriesQuery retrieves the live per-driver delivery view:
// every route still planned or being driven, with progress counts and the
// driver's last known position.
type GetActiveDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveDeliveriesQuery creates a parameterless dashboard query.
func NewGetActiveDeliveriesQuery() GetActiveDeliveriesQuery {
	return GetActiveDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

// ActiveDeliveryResponse is one driver's row in the live delivery view.
// Location fields are populated only when HasLocation is true.
type ActiveDeliveryResponse struct {
	RouteID             string
	DriverID            string
	DriverName          string
	VehicleNumber       string
	RouteStatus         string
	RouteKind           string
	TotalDistanceKm     float64
	EstimatedMinutes    int
	TotalDeliveries     int
	CompletedDeliveries int
	RemainingDeliveries int
	NextDeliveryAddress string
	NextOrderRef        string
	HasLocation         bool
	Latitude            float64
	Longitude           float64
	LocationReportedAt  time.Time
	EstimatedCompletion time.Time
}
