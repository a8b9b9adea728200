package commands

import (
	"context"
	"errors"
	"log/slog"

	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/domain/model/saga"
)

// ErrOrchestrationInterrupted marks executions abandoned by a process
// restart; it plays the role of the forward failure during recovery.
var ErrOrchestrationInterrupted = errors.New("orchestration interrupted by process restart")

// recoveryStepName labels the synthetic failure attached to recovered
// executions in logs and escalation reports.
const recoveryStepName = "RECOVERY"

// RecoverSagasResult summarizes one recovery pass.
type RecoverSagasResult struct {
	Recovered int
	Escalated int
}

// RecoverSagasCommandHandler compensates saga executions left RUNNING by a
// crashed process. It reuses the orchestrator's compensation machinery, so
// recovery follows exactly the same reverse-order, escalate-on-failure
// rules as a live saga.
type RecoverSagasCommandHandler struct {
	uowFactory   SagaUoWFactory
	orchestrator ProcessOrderCommandHandler
	logger       *slog.Logger
}

// NewRecoverSagasCommandHandler creates a handler for the recovery pass.
func NewRecoverSagasCommandHandler(
	uowFactory SagaUoWFactory,
	orchestrator ProcessOrderCommandHandler,
	logger *slog.Logger,
) RecoverSagasCommandHandler {
	return RecoverSagasCommandHandler{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Handle compensates every interrupted execution. Executions whose order
// already reached a terminal status are closed without side effects.
func (h RecoverSagasCommandHandler) Handle(ctx context.Context, command RecoverSagasCommand) (RecoverSagasResult, error) {
	if err := command.Validate(); err != nil {
		return RecoverSagasResult{}, err
	}

	executions, err := h.loadRunningExecutions(ctx)
	if err != nil {
		return RecoverSagasResult{}, err
	}

	result := RecoverSagasResult{}
	for _, execution := range executions {
		unlock := h.orchestrator.locks.Lock(execution.OrderID().String())

		outcome, err := h.recoverOne(ctx, execution)
		unlock()
		if err != nil {
			h.logger.ErrorContext(ctx, "saga recovery failed",
				"executionId", execution.ID().String(),
				"orderId", execution.OrderID().String(),
				"error", err)
			continue
		}

		switch outcome {
		case SagaStatusManualIntervention:
			result.Escalated++
		default:
			result.Recovered++
		}
	}

	if len(executions) > 0 {
		h.logger.InfoContext(ctx, "saga recovery pass finished",
			"found", len(executions),
			"recovered", result.Recovered,
			"escalated", result.Escalated)
	}
	return result, nil
}

func (h RecoverSagasCommandHandler) recoverOne(ctx context.Context, execution *saga.Execution) (string, error) {
	aggregate, err := h.loadOrder(ctx, execution)
	if err != nil {
		return "", err
	}

	// An order already terminal means the previous process finished the
	// work but died before closing the log.
	if aggregate.Status().IsTerminal() {
		if aggregate.Status() == order.Delivered {
			err = execution.MarkSucceeded()
		} else {
			err = execution.MarkCompensated()
		}
		if err != nil {
			return "", err
		}
		if err := h.orchestrator.save(ctx, aggregate, execution); err != nil {
			return "", err
		}
		return SagaStatusCompleted, nil
	}

	// An order that finished all forward steps just needs the log closed.
	if execution.HasCompleted(saga.StepROSPlan) {
		if err := execution.MarkSucceeded(); err != nil {
			return "", err
		}
		if err := h.orchestrator.save(ctx, aggregate, execution); err != nil {
			return "", err
		}
		return SagaStatusCompleted, nil
	}

	cause := saga.NewIntegrationError(recoveryStepName, ErrOrchestrationInterrupted)
	outcome, err := h.orchestrator.compensate(ctx, aggregate, execution, cause)
	if err != nil {
		return "", err
	}
	return outcome.Status, nil
}

func (h RecoverSagasCommandHandler) loadRunningExecutions(ctx context.Context) ([]*saga.Execution, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	executions, err := uow.SagaExecutionRepository().GetAllRunning(ctx)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return executions, nil
}

func (h RecoverSagasCommandHandler) loadOrder(ctx context.Context, execution *saga.Execution) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, execution.OrderID())
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return aggregate, nil
}
