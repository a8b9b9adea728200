package commands

import (
	"context"
	"errors"
	"log/slog"

	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
)

// ErrNoPlannedRoute is returned when the driver has no route to start.
var ErrNoPlannedRoute = errors.New("driver has no planned route")

// StartRouteCommandHandler activates a driver's planned route and moves
// every order on it to OUT_FOR_DELIVERY.
type StartRouteCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewStartRouteCommandHandler creates a handler for route starts.
func NewStartRouteCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) StartRouteCommandHandler {
	return StartRouteCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle activates the driver's planned route. Each order on the route is
// transitioned to OUT_FOR_DELIVERY in the same transaction as the route
// activation; status notifications go out after commit.
func (h StartRouteCommandHandler) Handle(ctx context.Context, command StartRouteCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.RouteRepository().GetActiveByDriver(ctx, command.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrNoPlannedRoute
	}
	if err != nil {
		return err
	}

	if err := aggregate.Activate(); err != nil {
		return err
	}
	if err := uow.RouteRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	started := make([]*order.Order, 0, len(aggregate.DeliveryPoints()))
	for _, point := range aggregate.DeliveryPoints() {
		o, err := uow.OrderRepository().GetByOrderNumber(ctx, point.OrderRef())
		if err != nil {
			return err
		}
		if err := o.MarkOutForDelivery(); err != nil {
			return err
		}
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
		started = append(started, o)
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for _, o := range started {
		if err := h.publisher.PublishOrderStatusChanged(ctx, o); err != nil {
			h.logger.WarnContext(ctx, "status notification failed",
				"orderId", o.ID().String(),
				"error", err)
		}
	}
	return nil
}
