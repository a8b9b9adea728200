package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/domain/model/saga"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
	"swiftlogistics/internal/pkg/keylock"
)

// Saga outcome status codes returned to callers.
const (
	SagaStatusCompleted          = "COMPLETED"
	SagaStatusCompensated        = "COMPENSATED"
	SagaStatusManualIntervention = "MANUAL_INTERVENTION"
)

var (
	// ErrOrderNotFound is returned when the order to orchestrate does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyProcessed is returned when orchestration is requested
	// for an order that already left SUBMITTED status.
	ErrOrderAlreadyProcessed = errors.New("order was already processed")
)

// ProcessOrderResult is the structured outcome of one saga run.
type ProcessOrderResult struct {
	Status  string
	Message string
}

// sagaStep is one named forward step with its best-effort inverse. The
// orchestrator is an interpreter over an ordered list of these.
type sagaStep struct {
	name       string
	action     func(ctx context.Context, aggregate *order.Order) (string, error)
	advance    func(aggregate *order.Order) error
	compensate func(ctx context.Context, aggregate *order.Order) error
}

// ProcessOrderCommandHandler orchestrates the three-step registration saga
// for an order: CMS_SUBMIT, WMS_ADD, ROS_PLAN. Each successful step
// advances the order's status and is appended to a durable step log; the
// first failure triggers compensation of the already-completed steps in
// exact reverse order.
//
// Runs for the same order id are serialized through an order-scoped lock,
// so two concurrent requests can never interleave steps or double-submit
// to the back-office systems.
type ProcessOrderCommandHandler struct {
	uowFactory  SagaUoWFactory
	cms         ports.ClientManagementClient
	wms         ports.WarehouseClient
	ros         ports.RoutePlanningClient
	publisher   ports.NotificationPublisher
	locks       *keylock.KeyedMutex
	stepTimeout time.Duration
	logger      *slog.Logger
}

// NewProcessOrderCommandHandler creates a handler for saga orchestration.
// stepTimeout bounds every adapter call, forward and compensating; a
// timed-out call is treated exactly like an explicit adapter failure.
func NewProcessOrderCommandHandler(
	uowFactory SagaUoWFactory,
	cms ports.ClientManagementClient,
	wms ports.WarehouseClient,
	ros ports.RoutePlanningClient,
	publisher ports.NotificationPublisher,
	locks *keylock.KeyedMutex,
	stepTimeout time.Duration,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		uowFactory:  uowFactory,
		cms:         cms,
		wms:         wms,
		ros:         ros,
		publisher:   publisher,
		locks:       locks,
		stepTimeout: stepTimeout,
		logger:      logger,
	}
}

// Handle runs the saga for the command's order.
//
// The returned result describes the business outcome: COMPLETED after all
// forward steps, COMPENSATED after a clean rollback (order is FAILED), or
// MANUAL_INTERVENTION after a failed rollback (order keeps its last
// forward status and the incident is escalated). Integration failures are
// absorbed into these outcomes, never returned as errors; the error return
// covers validation and persistence problems only.
func (h ProcessOrderCommandHandler) Handle(ctx context.Context, command ProcessOrderCommand) (ProcessOrderResult, error) {
	if err := command.Validate(); err != nil {
		return ProcessOrderResult{}, err
	}

	unlock := h.locks.Lock(command.OrderID().String())
	defer unlock()

	aggregate, err := h.loadSubmittedOrder(ctx, command.OrderID())
	if err != nil {
		return ProcessOrderResult{}, err
	}

	execution, err := saga.NewExecution(kernel.NewUUID(), aggregate.ID())
	if err != nil {
		return ProcessOrderResult{}, err
	}
	if err := h.addExecution(ctx, execution); err != nil {
		return ProcessOrderResult{}, err
	}

	for _, step := range h.steps() {
		result, stepErr := h.runStep(ctx, step, aggregate)
		if stepErr == nil {
			if err := step.advance(aggregate); err != nil {
				return ProcessOrderResult{}, err
			}
			if err := execution.RecordCompleted(step.name, result); err != nil {
				return ProcessOrderResult{}, err
			}
			if err := h.save(ctx, aggregate, execution); err != nil {
				return ProcessOrderResult{}, err
			}
			h.notifyStatusChanged(ctx, aggregate)
			continue
		}

		h.logger.WarnContext(ctx, "saga step failed, compensating",
			"orderId", aggregate.ID().String(),
			"step", step.name,
			"error", stepErr)
		return h.compensate(ctx, aggregate, execution, saga.NewIntegrationError(step.name, stepErr))
	}

	if err := execution.MarkSucceeded(); err != nil {
		return ProcessOrderResult{}, err
	}
	if err := h.save(ctx, aggregate, execution); err != nil {
		return ProcessOrderResult{}, err
	}

	return ProcessOrderResult{
		Status:  SagaStatusCompleted,
		Message: "order registered with all back-office systems",
	}, nil
}

// steps returns the forward sequence in its fixed execution order.
func (h ProcessOrderCommandHandler) steps() []sagaStep {
	return []sagaStep{
		{
			name:       saga.StepCMSSubmit,
			action:     h.cms.Submit,
			advance:    func(aggregate *order.Order) error { return aggregate.MarkProcessing() },
			compensate: h.cms.CancelSubmission,
		},
		{
			name:       saga.StepWMSAdd,
			action:     h.wms.AddPackage,
			advance:    func(aggregate *order.Order) error { return aggregate.MarkInWarehouse() },
			compensate: h.wms.RemovePackage,
		},
		{
			name:       saga.StepROSPlan,
			action:     h.ros.PlanRoute,
			advance:    func(aggregate *order.Order) error { return aggregate.MarkRoutePlanned() },
			compensate: h.ros.CancelRoute,
		},
	}
}

func (h ProcessOrderCommandHandler) runStep(
	ctx context.Context, step sagaStep, aggregate *order.Order,
) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, h.stepTimeout)
	defer cancel()
	return step.action(stepCtx, aggregate)
}

// compensate rolls back every completed step in reverse completion order.
// A clean rollback ends the order in FAILED; a failed rollback leaves the
// order in its last forward state and escalates with both errors attached.
func (h ProcessOrderCommandHandler) compensate(
	ctx context.Context,
	aggregate *order.Order,
	execution *saga.Execution,
	cause *saga.IntegrationError,
) (ProcessOrderResult, error) {
	stepsByName := make(map[string]sagaStep)
	for _, step := range h.steps() {
		stepsByName[step.name] = step
	}

	for _, completed := range execution.CompensationPlan() {
		step := stepsByName[completed.Name]

		stepCtx, cancel := context.WithTimeout(ctx, h.stepTimeout)
		compErr := step.compensate(stepCtx, aggregate)
		cancel()

		if compErr == nil {
			continue
		}

		escalation := saga.NewCompensationError(completed.Name, cause, compErr)
		h.logger.ErrorContext(ctx, "compensation failed, escalating to manual intervention",
			"orderId", aggregate.ID().String(),
			"step", completed.Name,
			"originalError", cause,
			"compensationError", compErr)

		if err := execution.MarkManualIntervention(); err != nil {
			return ProcessOrderResult{}, err
		}
		if err := h.save(ctx, aggregate, execution); err != nil {
			return ProcessOrderResult{}, err
		}
		h.notifyManualIntervention(ctx, aggregate, escalation)

		return ProcessOrderResult{
			Status:  SagaStatusManualIntervention,
			Message: escalation.Error(),
		}, nil
	}

	if err := aggregate.MarkFailed(); err != nil {
		return ProcessOrderResult{}, err
	}
	if err := execution.MarkCompensated(); err != nil {
		return ProcessOrderResult{}, err
	}
	if err := h.save(ctx, aggregate, execution); err != nil {
		return ProcessOrderResult{}, err
	}
	h.notifyStatusChanged(ctx, aggregate)

	return ProcessOrderResult{
		Status:  SagaStatusCompensated,
		Message: cause.Error(),
	}, nil
}

func (h ProcessOrderCommandHandler) loadSubmittedOrder(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if aggregate.Status() != order.Submitted {
		return nil, ErrOrderAlreadyProcessed
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return aggregate, nil
}

func (h ProcessOrderCommandHandler) addExecution(ctx context.Context, execution *saga.Execution) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.SagaExecutionRepository().Add(ctx, execution); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// save persists the order and the step log together, so the durable log
// always reflects the order status it produced.
func (h ProcessOrderCommandHandler) save(ctx context.Context, aggregate *order.Order, execution *saga.Execution) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err := uow.SagaExecutionRepository().Update(ctx, execution); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// Notifications are fire-and-forget: failures are logged, never retried.
func (h ProcessOrderCommandHandler) notifyStatusChanged(ctx context.Context, aggregate *order.Order) {
	if err := h.publisher.PublishOrderStatusChanged(ctx, aggregate); err != nil {
		h.logger.WarnContext(ctx, "status notification failed",
			"orderId", aggregate.ID().String(),
			"status", aggregate.Status().String(),
			"error", err)
	}
}

func (h ProcessOrderCommandHandler) notifyManualIntervention(
	ctx context.Context, aggregate *order.Order, escalation *saga.CompensationError,
) {
	report := ports.ManualInterventionReport{
		OrderID:           aggregate.ID().String(),
		OrderNumber:       aggregate.OrderNumber(),
		FailedStep:        escalation.Step,
		OriginalError:     escalation.Original.Error(),
		CompensationError: escalation.Cause.Error(),
		OccurredAt:        time.Now().UTC(),
	}
	if err := h.publisher.PublishManualIntervention(ctx, report); err != nil {
		h.logger.ErrorContext(ctx, "manual intervention notification failed",
			"orderId", aggregate.ID().String(),
			"error", err)
	}
}
