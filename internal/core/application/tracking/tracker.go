// Package tracking contains the live tracker: it ingests driver position
// reports, maintains per-driver route progress, and computes arrival
// estimates. All state lives in injectable stores and is volatile.
package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
	"swiftlogistics/internal/core/domain/model/tracking"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/keylock"
)

const (
	// minimumEstimateSpeedKmh floors the speed used for arrival estimates,
	// avoiding division by near-zero while the driver is stationary.
	minimumEstimateSpeedKmh = 25.0

	// minutesPerRemainingDelivery is the flat per-stop estimate used for
	// route completion forecasts.
	minutesPerRemainingDelivery = 15
)

// ETA status codes returned to callers.
const (
	ETAStatusOK             = "OK"
	ETAStatusNoLocationData = "NO_LOCATION_DATA"
	ETAStatusUnresolved     = "ADDRESS_UNRESOLVED"
)

// ETAResult is the structured outcome of an arrival estimate. Minutes and
// DistanceKm are meaningful only when Status is OK.
type ETAResult struct {
	Status     string
	Message    string
	Minutes    int
	DistanceKm float64
	ArrivalAt  time.Time
}

// Tracker maintains the transient per-driver state: latest location and
// active-route progress. A keyed mutex makes every update atomic per
// driver while leaving different drivers fully independent.
type Tracker struct {
	locations ports.LocationStore
	progress  ports.ProgressStore
	geocoder  ports.Geocoder
	locks     *keylock.KeyedMutex
	logger    *slog.Logger
}

// NewTracker creates a Tracker over the given stores. locks is shared with
// the delivery-completion handler so completions and reports for the same
// driver serialize.
func NewTracker(
	locations ports.LocationStore,
	progress ports.ProgressStore,
	geocoder ports.Geocoder,
	locks *keylock.KeyedMutex,
	logger *slog.Logger,
) *Tracker {
	return &Tracker{
		locations: locations,
		progress:  progress,
		geocoder:  geocoder,
		locks:     locks,
		logger:    logger,
	}
}

// ReportLocation overwrites the driver's cached location with the new
// report. If a route is being tracked for the driver, its progress
// bookkeeping records the position; route points themselves are untouched.
func (t *Tracker) ReportLocation(ctx context.Context, location tracking.DriverLocation) error {
	unlock := t.locks.Lock(location.DriverID.String())
	defer unlock()

	if err := t.locations.Set(ctx, location); err != nil {
		return err
	}

	progress, ok, err := t.progress.Get(ctx, location.DriverID)
	if err != nil || !ok {
		return err
	}
	if err := progress.RecordPosition(location.Position); err != nil {
		return err
	}
	return t.progress.Set(ctx, progress)
}

// BeginTracking starts progress bookkeeping for a freshly planned route,
// superseding any previous progress for the driver. At most one route is
// tracked per driver.
func (t *Tracker) BeginTracking(ctx context.Context, driverID kernel.UUID, aggregate *route.OptimizedRoute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	unlock := t.locks.Lock(driverID.String())
	defer unlock()

	progress, err := tracking.NewRouteProgress(aggregate.ID(), driverID)
	if err != nil {
		return err
	}
	return t.progress.Set(ctx, progress)
}

// StopTracking drops the driver's progress entry when the route ends.
func (t *Tracker) StopTracking(ctx context.Context, driverID kernel.UUID) error {
	unlock := t.locks.Lock(driverID.String())
	defer unlock()

	return t.progress.Delete(ctx, driverID)
}

// Progress returns the driver's current route progress, if any.
func (t *Tracker) Progress(ctx context.Context, driverID kernel.UUID) (*tracking.RouteProgress, bool, error) {
	return t.progress.Get(ctx, driverID)
}

// LastLocation returns the driver's latest reported location, if any.
func (t *Tracker) LastLocation(ctx context.Context, driverID kernel.UUID) (tracking.DriverLocation, bool, error) {
	return t.locations.Get(ctx, driverID)
}

// EstimateArrival estimates when the driver reaches the destination
// address: great-circle distance from the last reported position, divided
// by the reported speed floored at 25 km/h, rounded up to whole minutes.
//
// A driver that never reported a position yields a NO_LOCATION_DATA
// result; a destination the geocoder cannot resolve yields
// ADDRESS_UNRESOLVED. Neither is an error.
func (t *Tracker) EstimateArrival(ctx context.Context, driverID kernel.UUID, destinationAddress string) (ETAResult, error) {
	location, ok, err := t.locations.Get(ctx, driverID)
	if err != nil {
		return ETAResult{}, err
	}
	if !ok {
		return ETAResult{
			Status:  ETAStatusNoLocationData,
			Message: "driver has not reported a position yet",
		}, nil
	}

	destination, err := t.geocoder.Resolve(ctx, destinationAddress)
	if err != nil {
		t.logger.WarnContext(ctx, "destination resolution failed",
			"driverId", driverID.String(),
			"address", destinationAddress,
			"error", err)
		return ETAResult{
			Status:  ETAStatusUnresolved,
			Message: "destination address could not be resolved",
		}, nil
	}

	distanceKm, err := location.Position.DistanceTo(destination)
	if err != nil {
		return ETAResult{}, err
	}

	speedKmh := location.SpeedKmh
	if speedKmh < minimumEstimateSpeedKmh {
		speedKmh = minimumEstimateSpeedKmh
	}
	minutes := int(math.Ceil(distanceKm / speedKmh * 60))

	return ETAResult{
		Status:     ETAStatusOK,
		Message:    fmt.Sprintf("%d minutes to destination", minutes),
		Minutes:    minutes,
		DistanceKm: distanceKm,
		ArrivalAt:  time.Now().UTC().Add(time.Duration(minutes) * time.Minute),
	}, nil
}

// EstimateRouteCompletion forecasts when the driver finishes the active
// route: 15 minutes per remaining delivery added to now, or now itself
// when nothing remains.
func (t *Tracker) EstimateRouteCompletion(remainingDeliveries int) time.Time {
	if remainingDeliveries <= 0 {
		return time.Now().UTC()
	}
	return time.Now().UTC().Add(time.Duration(remainingDeliveries*minutesPerRemainingDelivery) * time.Minute)
}
