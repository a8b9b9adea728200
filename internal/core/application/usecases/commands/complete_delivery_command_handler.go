package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
	"swiftlogistics/internal/pkg/keylock"
)

// deliveryGeofenceKm is the maximum distance between the driver's reported
// position and the delivery point for a completion to be accepted.
const deliveryGeofenceKm = 0.5

// Delivery completion status codes returned to callers.
const (
	DeliveryStatusCompleted       = "DELIVERY_COMPLETED"
	DeliveryStatusOutsideGeofence = "OUTSIDE_GEOFENCE"
	DeliveryStatusNoLocationData  = "NO_LOCATION_DATA"
)

var (
	// ErrNoActiveRoute is returned when the driver has no active route.
	ErrNoActiveRoute = errors.New("driver has no active route")
	// ErrOrderNotOnRoute is returned when the order reference is not a stop
	// on the driver's active route.
	ErrOrderNotOnRoute = errors.New("order is not on the driver's active route")
)

// CompleteDeliveryResult is the structured outcome of a completion attempt.
type CompleteDeliveryResult struct {
	Status         string
	Message        string
	DistanceKm     float64
	RouteCompleted bool
}

// CompleteDeliveryCommandHandler confirms deliveries on active routes.
//
// A completion is accepted iff the driver's latest reported position lies
// within 0.5 km of the delivery point. Rejections change nothing, so the
// driver simply retries after moving closer. An accepted completion marks
// the route point, delivers the order, increments the driver's daily
// statistics, and completes the whole route once no pending points remain.
type CompleteDeliveryCommandHandler struct {
	uowFactory    DeliveryUoWFactory
	locationStore ports.LocationStore
	progressStore ports.ProgressStore
	publisher     ports.NotificationPublisher
	locks         *keylock.KeyedMutex
	logger        *slog.Logger
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery
// completion. locks must be the same keyed mutex the tracker uses, so a
// completion cannot race a location report for the same driver.
func NewCompleteDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	locationStore ports.LocationStore,
	progressStore ports.ProgressStore,
	publisher ports.NotificationPublisher,
	locks *keylock.KeyedMutex,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory:    uowFactory,
		locationStore: locationStore,
		progressStore: progressStore,
		publisher:     publisher,
		locks:         locks,
		logger:        logger,
	}
}

// Handle processes one completion attempt. Geofence rejections and missing
// location data are reported as negative results, not errors.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) (CompleteDeliveryResult, error) {
	if err := command.Validate(); err != nil {
		return CompleteDeliveryResult{}, err
	}

	unlock := h.locks.Lock(command.DriverID().String())
	defer unlock()

	location, hasLocation, err := h.locationStore.Get(ctx, command.DriverID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}
	if !hasLocation {
		return CompleteDeliveryResult{
			Status:  DeliveryStatusNoLocationData,
			Message: "driver has not reported a position yet",
		}, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	activeRoute, err := uow.RouteRepository().GetActiveByDriver(ctx, command.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return CompleteDeliveryResult{}, ErrNoActiveRoute
	}
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	point, found := activeRoute.FindDeliveryPoint(command.OrderRef())
	if !found {
		return CompleteDeliveryResult{}, ErrOrderNotOnRoute
	}

	// Points whose address never resolved cannot be proximity-checked;
	// completion degrades to accepting the driver's word, consistent with
	// how unresolved addresses degrade routing.
	distanceKm := 0.0
	if point.HasCoordinates() {
		distanceKm, err = location.Position.DistanceTo(point.Coordinates())
		if err != nil {
			return CompleteDeliveryResult{}, err
		}
		if distanceKm > deliveryGeofenceKm {
			return CompleteDeliveryResult{
				Status:     DeliveryStatusOutsideGeofence,
				Message:    fmt.Sprintf("driver is %.2f km from the delivery point, limit is %.1f km", distanceKm, deliveryGeofenceKm),
				DistanceKm: distanceKm,
			}, nil
		}
	}

	now := time.Now().UTC()
	if err := activeRoute.CompletePoint(command.OrderRef(), now); err != nil {
		return CompleteDeliveryResult{}, err
	}

	aggregate, err := uow.OrderRepository().GetByOrderNumber(ctx, command.OrderRef())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}
	if err := aggregate.MarkDelivered(now); err != nil {
		return CompleteDeliveryResult{}, err
	}
	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return CompleteDeliveryResult{}, err
	}

	legDistanceKm, err := activeRoute.LegDistanceTo(command.OrderRef())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}
	d, err := uow.DriverRepository().Get(ctx, command.DriverID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}
	if err := d.RecordCompletedDelivery(legDistanceKm); err != nil {
		return CompleteDeliveryResult{}, err
	}
	if err := uow.DriverRepository().Update(ctx, d); err != nil {
		return CompleteDeliveryResult{}, err
	}

	routeCompleted := activeRoute.RemainingDeliveries() == 0
	if routeCompleted {
		if err := activeRoute.Complete(); err != nil {
			return CompleteDeliveryResult{}, err
		}
	}
	if err := uow.RouteRepository().Update(ctx, activeRoute); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	h.updateProgress(ctx, command, now, location.Position, routeCompleted)

	if err := h.publisher.PublishDeliveryCompleted(ctx, command.DriverID().String(), command.OrderRef(), now); err != nil {
		h.logger.WarnContext(ctx, "delivery notification failed",
			"driverId", command.DriverID().String(),
			"orderRef", command.OrderRef(),
			"error", err)
	}
	if err := h.publisher.PublishOrderStatusChanged(ctx, aggregate); err != nil {
		h.logger.WarnContext(ctx, "status notification failed",
			"orderId", aggregate.ID().String(),
			"error", err)
	}

	message := "delivery confirmed"
	if routeCompleted {
		message = "delivery confirmed, route completed"
	}
	return CompleteDeliveryResult{
		Status:         DeliveryStatusCompleted,
		Message:        message,
		DistanceKm:     distanceKm,
		RouteCompleted: routeCompleted,
	}, nil
}

// updateProgress keeps the volatile progress bookkeeping in step with the
// durable completion. A RouteProgress exists only while its route is
// active, so route completion removes the entry.
func (h CompleteDeliveryCommandHandler) updateProgress(
	ctx context.Context,
	command CompleteDeliveryCommand,
	completedAt time.Time,
	position kernel.GeoPoint,
	routeCompleted bool,
) {
	progress, ok, err := h.progressStore.Get(ctx, command.DriverID())
	if err != nil || !ok {
		return
	}

	if routeCompleted {
		if err := h.progressStore.Delete(ctx, command.DriverID()); err != nil {
			h.logger.WarnContext(ctx, "progress cleanup failed",
				"driverId", command.DriverID().String(),
				"error", err)
		}
		return
	}

	progress.MarkCompleted(command.OrderRef(), completedAt)
	if err := progress.RecordPosition(position); err != nil {
		h.logger.WarnContext(ctx, "progress position update failed",
			"driverId", command.DriverID().String(),
			"error", err)
	}
	if err := h.progressStore.Set(ctx, progress); err != nil {
		h.logger.WarnContext(ctx, "progress update failed",
			"driverId", command.DriverID().String(),
			"error", err)
	}
}
