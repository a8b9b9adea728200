package route

import (
	"errors"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

var (
	// ErrRouteIsNotConstructed is returned when an OptimizedRoute instance
	// was not created through NewOptimizedRoute or RestoreOptimizedRoute.
	ErrRouteIsNotConstructed = errors.New("OptimizedRoute must be created via NewOptimizedRoute or RestoreOptimizedRoute constructor")
	// ErrRoutePointsAreRequired is returned for a route with no points.
	ErrRoutePointsAreRequired = errs.NewValueIsRequiredError("points")
	// ErrRouteIsNotPlanned is returned when activating a route that already
	// left the Planned status.
	ErrRouteIsNotPlanned = errors.New("route can only be activated from PLANNED status")
	// ErrRouteIsNotActive is returned when mutating delivery progress on a
	// route that is not Active.
	ErrRouteIsNotActive = errors.New("route is not active")
	// ErrRouteHasPendingDeliveries is returned when completing a route that
	// still has pending delivery points.
	ErrRouteHasPendingDeliveries = errors.New("route still has pending delivery points")
	// ErrRouteIsTerminal is returned when cancelling an already completed or
	// cancelled route.
	ErrRouteIsTerminal = errors.New("route is already completed or cancelled")
	// ErrPointAlreadyCompleted is returned when a delivery point is
	// completed twice.
	ErrPointAlreadyCompleted = errors.New("delivery point is already completed")
)

// OptimizedRoute is the aggregate root for one driver's delivery run: an
// ordered sequence of points, a distance/time estimate, and a lifecycle
// status.
//
// Invariants:
//   - at least one point, and the first point is the synthetic start
//   - a route belongs to exactly one driver for its entire life
//   - the number of completed delivery points never exceeds the total
//   - completed and cancelled routes never change again
type OptimizedRoute struct {
	id               kernel.UUID
	driverID         kernel.UUID
	points           []Point
	totalDistanceKm  float64
	estimatedMinutes int
	status           Status
	kind             Kind
	createdAt        time.Time
	updatedAt        time.Time
	isConstructed    bool
}

// NewOptimizedRoute creates a Planned route for the given driver. The
// points slice must start with the synthetic start point produced by
// NewStartPoint, followed by the delivery points in visiting order.
func NewOptimizedRoute(
	id kernel.UUID,
	driverID kernel.UUID,
	points []Point,
	totalDistanceKm float64,
	estimatedMinutes int,
	kind Kind,
) (*OptimizedRoute, error) {
	now := time.Now().UTC()
	r := &OptimizedRoute{
		status:        Planned,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setDriverID(driverID),
		r.setPoints(points),
		kind.Validate(),
	); err != nil {
		return nil, err
	}

	if totalDistanceKm < 0 {
		return nil, errs.NewValueIsOutOfRangeError("totalDistanceKm", totalDistanceKm, 0, nil)
	}
	if estimatedMinutes < 0 {
		return nil, errs.NewValueIsOutOfRangeError("estimatedMinutes", estimatedMinutes, 0, nil)
	}

	r.totalDistanceKm = totalDistanceKm
	r.estimatedMinutes = estimatedMinutes
	r.kind = kind
	return r, nil
}

// RestoreOptimizedRoute reconstructs an OptimizedRoute from persistence.
func RestoreOptimizedRoute(
	id kernel.UUID,
	driverID kernel.UUID,
	points []Point,
	totalDistanceKm float64,
	estimatedMinutes int,
	status Status,
	kind Kind,
	createdAt time.Time,
	updatedAt time.Time,
) (*OptimizedRoute, error) {
	r := &OptimizedRoute{isConstructed: true}

	if err := errors.Join(
		r.setID(id),
		r.setDriverID(driverID),
		r.setPoints(points),
		status.Validate(),
		kind.Validate(),
	); err != nil {
		return nil, err
	}

	r.totalDistanceKm = totalDistanceKm
	r.estimatedMinutes = estimatedMinutes
	r.status = status
	r.kind = kind
	r.createdAt = createdAt
	r.updatedAt = updatedAt
	return r, nil
}

// Validate ensures the route was created through a constructor.
func (r *OptimizedRoute) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// IsEqual compares two routes by identifier.
func (r *OptimizedRoute) IsEqual(other *OptimizedRoute) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the route's unique identifier.
func (r *OptimizedRoute) ID() kernel.UUID {
	return r.id
}

// DriverID returns the identifier of the driver the route was built for.
func (r *OptimizedRoute) DriverID() kernel.UUID {
	return r.driverID
}

// Points returns the route's points in visiting order.
func (r *OptimizedRoute) Points() []Point {
	points := make([]Point, len(r.points))
	copy(points, r.points)
	return points
}

// DeliveryPoints returns only the delivery stops, in visiting order.
func (r *OptimizedRoute) DeliveryPoints() []Point {
	points := make([]Point, 0, len(r.points))
	for _, p := range r.points {
		if !p.IsStart() {
			points = append(points, p)
		}
	}
	return points
}

// TotalDistanceKm returns the sum of consecutive leg distances.
func (r *OptimizedRoute) TotalDistanceKm() float64 {
	return r.totalDistanceKm
}

// EstimatedMinutes returns the travel time estimate for the whole route.
func (r *OptimizedRoute) EstimatedMinutes() int {
	return r.estimatedMinutes
}

// Status returns the route's lifecycle status.
func (r *OptimizedRoute) Status() Status {
	return r.status
}

// Kind returns how the point ordering was produced.
func (r *OptimizedRoute) Kind() Kind {
	return r.kind
}

// CreatedAt returns the creation timestamp.
func (r *OptimizedRoute) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (r *OptimizedRoute) UpdatedAt() time.Time {
	return r.updatedAt
}

// RemainingDeliveries returns how many delivery points are still pending.
func (r *OptimizedRoute) RemainingDeliveries() int {
	remaining := 0
	for _, p := range r.points {
		if !p.IsStart() && p.status == PointPending {
			remaining++
		}
	}
	return remaining
}

// CompletedDeliveries returns how many delivery points are completed.
func (r *OptimizedRoute) CompletedDeliveries() int {
	completed := 0
	for _, p := range r.points {
		if !p.IsStart() && p.status == PointCompleted {
			completed++
		}
	}
	return completed
}

// NextPendingDelivery returns the first delivery point still pending, in
// visiting order.
func (r *OptimizedRoute) NextPendingDelivery() (Point, bool) {
	for _, p := range r.points {
		if !p.IsStart() && p.status == PointPending {
			return p, true
		}
	}
	return Point{}, false
}

// FindDeliveryPoint returns the delivery point for the given order
// reference.
func (r *OptimizedRoute) FindDeliveryPoint(orderRef string) (Point, bool) {
	for _, p := range r.points {
		if !p.IsStart() && p.orderRef == orderRef {
			return p, true
		}
	}
	return Point{}, false
}

// LegDistanceTo returns the great-circle distance of the leg arriving at
// the delivery point for orderRef, i.e. from the preceding point in
// visiting order. Legs with unresolved coordinates report zero.
func (r *OptimizedRoute) LegDistanceTo(orderRef string) (float64, error) {
	for i := 1; i < len(r.points); i++ {
		if !r.points[i].IsStart() && r.points[i].orderRef == orderRef {
			return r.points[i-1].DistanceTo(r.points[i]), nil
		}
	}
	return 0, errs.NewObjectNotFoundError("orderRef", orderRef)
}

// Activate moves a Planned route to Active when the driver starts driving.
func (r *OptimizedRoute) Activate() error {
	if r.status != Planned {
		return ErrRouteIsNotPlanned
	}
	r.status = Active
	r.updatedAt = time.Now().UTC()
	return nil
}

// CompletePoint marks the delivery point for orderRef as completed at the
// given time. The route must be Active and the point still pending.
func (r *OptimizedRoute) CompletePoint(orderRef string, at time.Time) error {
	if r.status != Active {
		return ErrRouteIsNotActive
	}

	for i := range r.points {
		p := &r.points[i]
		if p.IsStart() || p.orderRef != orderRef {
			continue
		}
		if p.status == PointCompleted {
			return ErrPointAlreadyCompleted
		}
		utc := at.UTC()
		p.status = PointCompleted
		p.completedAt = &utc
		r.updatedAt = time.Now().UTC()
		return nil
	}
	return errs.NewObjectNotFoundError("orderRef", orderRef)
}

// Complete moves an Active route with no pending deliveries to Completed.
func (r *OptimizedRoute) Complete() error {
	if r.status != Active {
		return ErrRouteIsNotActive
	}
	if r.RemainingDeliveries() > 0 {
		return ErrRouteHasPendingDeliveries
	}
	r.status = Completed
	r.updatedAt = time.Now().UTC()
	return nil
}

// Cancel abandons a Planned or Active route. Pending delivery points are
// marked skipped so progress accounting stays consistent.
func (r *OptimizedRoute) Cancel() error {
	if r.status == Completed || r.status == Cancelled {
		return ErrRouteIsTerminal
	}
	for i := range r.points {
		p := &r.points[i]
		if !p.IsStart() && p.status == PointPending {
			p.status = PointSkipped
		}
	}
	r.status = Cancelled
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *OptimizedRoute) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *OptimizedRoute) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	r.driverID = driverID
	return nil
}

func (r *OptimizedRoute) setPoints(points []Point) error {
	if len(points) == 0 {
		return ErrRoutePointsAreRequired
	}
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if !points[0].IsStart() {
		return errs.NewValueIsInvalidError("points: first point must be the start point")
	}
	r.points = make([]Point, len(points))
	copy(r.points, points)
	return nil
}
