// Package tracking contains the transient per-driver state kept by the
// live tracker: the latest reported location and the progress of the
// active route. Neither is historized by the core.
package tracking

import (
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

// DriverLocation is the latest known position report for a driver. Each
// new report overwrites the previous one.
type DriverLocation struct {
	DriverID   kernel.UUID
	Position   kernel.GeoPoint
	SpeedKmh   float64
	HeadingDeg float64
	ReportedAt time.Time
}

// NewDriverLocation validates and builds a location report.
func NewDriverLocation(
	driverID kernel.UUID,
	position kernel.GeoPoint,
	speedKmh float64,
	headingDeg float64,
	reportedAt time.Time,
) (DriverLocation, error) {
	if err := driverID.Validate(); err != nil {
		return DriverLocation{}, errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	if err := position.Validate(); err != nil {
		return DriverLocation{}, err
	}
	if speedKmh < 0 {
		return DriverLocation{}, errs.NewValueIsOutOfRangeError("speedKmh", speedKmh, 0, nil)
	}
	if headingDeg < 0 || headingDeg >= 360 {
		return DriverLocation{}, errs.NewValueIsOutOfRangeError("headingDeg", headingDeg, 0, 360)
	}
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}
	return DriverLocation{
		DriverID:   driverID,
		Position:   position,
		SpeedKmh:   speedKmh,
		HeadingDeg: headingDeg,
		ReportedAt: reportedAt.UTC(),
	}, nil
}

// RouteProgress tracks one driver's advance along the active route: which
// order references were completed and when, plus the last position seen
// while the route was active. At most one RouteProgress exists per driver;
// beginning tracking for a new route supersedes the previous one.
type RouteProgress struct {
	routeID      kernel.UUID
	driverID     kernel.UUID
	completedAt  map[string]time.Time
	lastPosition *kernel.GeoPoint
	startedAt    time.Time
	updatedAt    time.Time
}

// NewRouteProgress starts progress bookkeeping for the given route.
func NewRouteProgress(routeID kernel.UUID, driverID kernel.UUID) (*RouteProgress, error) {
	if err := routeID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("routeID", err)
	}
	if err := driverID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("driverID", err)
	}
	now := time.Now().UTC()
	return &RouteProgress{
		routeID:     routeID,
		driverID:    driverID,
		completedAt: make(map[string]time.Time),
		startedAt:   now,
		updatedAt:   now,
	}, nil
}

// RouteID returns the identifier of the tracked route.
func (p *RouteProgress) RouteID() kernel.UUID {
	return p.routeID
}

// DriverID returns the identifier of the tracked driver.
func (p *RouteProgress) DriverID() kernel.UUID {
	return p.driverID
}

// StartedAt returns when tracking began.
func (p *RouteProgress) StartedAt() time.Time {
	return p.startedAt
}

// UpdatedAt returns the last bookkeeping change.
func (p *RouteProgress) UpdatedAt() time.Time {
	return p.updatedAt
}

// RecordPosition remembers the most recent position seen on this route.
func (p *RouteProgress) RecordPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}
	p.lastPosition = &position
	p.updatedAt = time.Now().UTC()
	return nil
}

// LastPosition returns the most recent position recorded on this route.
func (p *RouteProgress) LastPosition() (kernel.GeoPoint, bool) {
	if p.lastPosition == nil {
		return kernel.GeoPoint{}, false
	}
	return *p.lastPosition, true
}

// MarkCompleted records the completion timestamp for an order reference.
// Marking twice keeps the first timestamp.
func (p *RouteProgress) MarkCompleted(orderRef string, at time.Time) {
	if _, done := p.completedAt[orderRef]; done {
		return
	}
	p.completedAt[orderRef] = at.UTC()
	p.updatedAt = time.Now().UTC()
}

// CompletedAt returns the completion timestamp for an order reference.
func (p *RouteProgress) CompletedAt(orderRef string) (time.Time, bool) {
	at, ok := p.completedAt[orderRef]
	return at, ok
}

// CompletedCount returns how many order references were completed.
func (p *RouteProgress) CompletedCount() int {
	return len(p.completedAt)
}

// CompletedRefs returns the completed order references with timestamps.
func (p *RouteProgress) CompletedRefs() map[string]time.Time {
	refs := make(map[string]time.Time, len(p.completedAt))
	for ref, at := range p.completedAt {
		refs[ref] = at
	}
	return refs
}
