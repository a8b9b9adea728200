package commands

import (
	"context"
	"log/slog"
	"strings"

	"swiftlogistics/internal/core/domain/model/driver"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/domain/model/route"
	"swiftlogistics/internal/core/domain/services"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/keylock"
)

// Assignment outcome status codes returned to callers.
const (
	AssignmentStatusSuccess            = "SUCCESS"
	AssignmentStatusNoPendingOrders    = "NO_PENDING_ORDERS"
	AssignmentStatusNoAvailableDrivers = "NO_AVAILABLE_DRIVERS"
)

// assignmentLockKey serializes concurrent assignment passes so two runs
// cannot select the same order.
const assignmentLockKey = "assignment"

// otherLocalityKey buckets orders whose address has no comma-delimited
// locality segment.
const otherLocalityKey = "OTHER"

// RouteTracker registers freshly planned routes with the live tracker.
type RouteTracker interface {
	BeginTracking(ctx context.Context, driverID kernel.UUID, aggregate *route.OptimizedRoute) error
}

// DriverAssignment summarizes what one driver received in a pass.
type DriverAssignment struct {
	DriverID         string
	DriverName       string
	VehicleNumber    string
	OrderCount       int
	OrderNumbers     []string
	RouteID          string
	RouteKind        string
	TotalDistanceKm  float64
	EstimatedMinutes int
}

// AssignOrdersResult is the structured outcome of one assignment pass.
// Localities reports the coarse geographic grouping of the pending pool;
// it is informational and does not drive selection.
type AssignOrdersResult struct {
	Status          string
	Message         string
	Assignments     []DriverAssignment
	AssignedOrders  int
	RemainingOrders int
	Localities      map[string]int
}

// AssignOrdersCommandHandler matches warehouse orders to active drivers.
//
// For each active driver in iteration order it selects up to the vehicle
// capacity from the front of the still-unassigned pool, builds an
// optimized route from the driver's last known position over the selected
// delivery addresses, transitions the selected orders to ROUTE_PLANNED,
// and registers the route with the live tracker. The pool is snapshotted
// once and shrunk through an explicit removal set, so no list is mutated
// while being iterated.
//
// Running a pass twice without new warehouse orders assigns nothing the
// second time: the initial status filter excludes everything already at
// ROUTE_PLANNED.
type AssignOrdersCommandHandler struct {
	uowFactory    AssignmentUoWFactory
	geocoder      ports.Geocoder
	locationStore ports.LocationStore
	tracker       RouteTracker
	publisher     ports.NotificationPublisher
	optimizer     services.RouteOptimizer
	depotAddress  string
	depotLocation kernel.GeoPoint
	locks         *keylock.KeyedMutex
	logger        *slog.Logger
}

// NewAssignOrdersCommandHandler creates a handler for assignment passes.
// depotAddress/depotLocation describe the warehouse and serve as the route
// start for drivers that have never reported a position.
func NewAssignOrdersCommandHandler(
	uowFactory AssignmentUoWFactory,
	geocoder ports.Geocoder,
	locationStore ports.LocationStore,
	tracker RouteTracker,
	publisher ports.NotificationPublisher,
	depotAddress string,
	depotLocation kernel.GeoPoint,
	locks *keylock.KeyedMutex,
	logger *slog.Logger,
) AssignOrdersCommandHandler {
	return AssignOrdersCommandHandler{
		uowFactory:    uowFactory,
		geocoder:      geocoder,
		locationStore: locationStore,
		tracker:       tracker,
		publisher:     publisher,
		optimizer:     services.NewRouteOptimizer(),
		depotAddress:  depotAddress,
		depotLocation: depotLocation,
		locks:         locks,
		logger:        logger,
	}
}

// Handle runs one assignment pass. When the pending pool or the active
// driver set is empty, a no-op result is returned and nothing changes.
func (h AssignOrdersCommandHandler) Handle(ctx context.Context, command AssignOrdersCommand) (AssignOrdersResult, error) {
	if err := command.Validate(); err != nil {
		return AssignOrdersResult{}, err
	}

	unlock := h.locks.Lock(assignmentLockKey)
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignOrdersResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pending, err := uow.OrderRepository().GetAllInStatus(ctx, order.InWarehouse)
	if err != nil {
		return AssignOrdersResult{}, err
	}
	if len(pending) == 0 {
		return AssignOrdersResult{
			Status:  AssignmentStatusNoPendingOrders,
			Message: "no orders available for assignment",
		}, nil
	}

	drivers, err := uow.DriverRepository().GetAllInStatus(ctx, driver.Active)
	if err != nil {
		return AssignOrdersResult{}, err
	}
	if len(drivers) == 0 {
		return AssignOrdersResult{
			Status:          AssignmentStatusNoAvailableDrivers,
			Message:         "no active drivers available",
			RemainingOrders: len(pending),
		}, nil
	}

	localities := groupByLocality(pending)

	type plannedRoute struct {
		driverID kernel.UUID
		route    *route.OptimizedRoute
		orders   []*order.Order
	}

	assigned := make(map[kernel.UUID]bool)
	var planned []plannedRoute
	var assignments []DriverAssignment

	for _, d := range drivers {
		stillPending := make([]*order.Order, 0, len(pending))
		for _, o := range pending {
			if !assigned[o.ID()] {
				stillPending = append(stillPending, o)
			}
		}
		if len(stillPending) == 0 {
			break
		}

		capacity := d.Capacity()
		if capacity > len(stillPending) {
			capacity = len(stillPending)
		}
		selected := stillPending[:capacity]

		optimized, err := h.buildRoute(ctx, d, selected)
		if err != nil {
			return AssignOrdersResult{}, err
		}
		if err := uow.RouteRepository().Add(ctx, optimized); err != nil {
			return AssignOrdersResult{}, err
		}

		orderNumbers := make([]string, 0, len(selected))
		for _, o := range selected {
			if err := o.MarkRoutePlanned(); err != nil {
				return AssignOrdersResult{}, err
			}
			if err := uow.OrderRepository().Update(ctx, o); err != nil {
				return AssignOrdersResult{}, err
			}
			assigned[o.ID()] = true
			orderNumbers = append(orderNumbers, o.OrderNumber())
		}

		planned = append(planned, plannedRoute{driverID: d.ID(), route: optimized, orders: selected})
		assignments = append(assignments, DriverAssignment{
			DriverID:         d.ID().String(),
			DriverName:       d.Name(),
			VehicleNumber:    d.VehicleNumber(),
			OrderCount:       len(selected),
			OrderNumbers:     orderNumbers,
			RouteID:          optimized.ID().String(),
			RouteKind:        optimized.Kind().String(),
			TotalDistanceKm:  optimized.TotalDistanceKm(),
			EstimatedMinutes: optimized.EstimatedMinutes(),
		})
	}

	if err := uow.Commit(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	// Tracker registration and notifications happen after commit: both are
	// volatile side effects that must not precede the durable transition.
	for _, p := range planned {
		if err := h.tracker.BeginTracking(ctx, p.driverID, p.route); err != nil {
			h.logger.WarnContext(ctx, "route tracking registration failed",
				"driverId", p.driverID.String(),
				"routeId", p.route.ID().String(),
				"error", err)
		}
		for _, o := range p.orders {
			if err := h.publisher.PublishOrderStatusChanged(ctx, o); err != nil {
				h.logger.WarnContext(ctx, "status notification failed",
					"orderId", o.ID().String(),
					"error", err)
			}
		}
	}

	return AssignOrdersResult{
		Status:          AssignmentStatusSuccess,
		Message:         "assignment pass completed",
		Assignments:     assignments,
		AssignedOrders:  len(assigned),
		RemainingOrders: len(pending) - len(assigned),
		Localities:      localities,
	}, nil
}

// buildRoute geocodes the selected delivery addresses and optimizes the
// visiting order from the driver's last known position. Resolution
// failures leave the point without coordinates, which degrades the whole
// route to fallback ordering instead of failing the pass.
func (h AssignOrdersCommandHandler) buildRoute(
	ctx context.Context, d *driver.Driver, selected []*order.Order,
) (*route.OptimizedRoute, error) {
	startAddress := h.depotAddress
	startLocation := h.depotLocation
	if location, ok, err := h.locationStore.Get(ctx, d.ID()); err == nil && ok {
		startAddress = "Driver current position"
		startLocation = location.Position
	}

	start, err := route.NewStartPoint(startAddress, startLocation)
	if err != nil {
		return nil, err
	}

	deliveryPoints := make([]route.Point, 0, len(selected))
	for _, o := range selected {
		coordinates, err := h.geocoder.Resolve(ctx, o.DeliveryAddress())
		if err != nil {
			h.logger.WarnContext(ctx, "address resolution failed, route will fall back",
				"orderNumber", o.OrderNumber(),
				"error", err)
			coordinates = kernel.GeoPoint{}
		}
		point, err := route.NewDeliveryPoint(o.DeliveryAddress(), coordinates, o.OrderNumber())
		if err != nil {
			return nil, err
		}
		deliveryPoints = append(deliveryPoints, point)
	}

	return h.optimizer.Optimize(d.ID(), start, deliveryPoints)
}

// groupByLocality partitions orders by the first comma-delimited segment
// of the delivery address. The grouping is reported for visibility only;
// selection stays front-of-queue.
func groupByLocality(orders []*order.Order) map[string]int {
	localities := make(map[string]int)
	for _, o := range orders {
		key := otherLocalityKey
		if idx := strings.Index(o.DeliveryAddress(), ","); idx > 0 {
			key = strings.TrimSpace(o.DeliveryAddress()[:idx])
		}
		localities[key]++
	}
	return localities
}
