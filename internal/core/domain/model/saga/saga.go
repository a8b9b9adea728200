// Package saga contains the saga Execution aggregate: a durable log of
// which forward steps completed for one order's orchestration, used to
// drive compensation in exact reverse completion order.
package saga

import (
	"errors"
	"fmt"
	"time"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

// Forward step names, in their fixed execution order.
const (
	StepCMSSubmit = "CMS_SUBMIT"
	StepWMSAdd    = "WMS_ADD"
	StepROSPlan   = "ROS_PLAN"
)

// ExecutionStatus describes where a saga execution ended up.
type ExecutionStatus int

const (
	// ExecutionStatusUnknown is the zero value and is always invalid.
	ExecutionStatusUnknown ExecutionStatus = iota
	// Running executions are mid-flight; a Running execution found after a
	// process restart is a candidate for recovery.
	Running
	// Succeeded executions completed every forward step.
	Succeeded
	// Compensated executions failed forward and rolled back cleanly.
	Compensated
	// ManualIntervention executions failed forward AND failed to roll back;
	// they are escalated, never retried automatically.
	ManualIntervention
)

func getExecutionStatusStrings() map[ExecutionStatus]string {
	return map[ExecutionStatus]string{
		Running:            "RUNNING",
		Succeeded:          "SUCCEEDED",
		Compensated:        "COMPENSATED",
		ManualIntervention: "MANUAL_INTERVENTION",
	}
}

// Validate returns an error for statuses outside the defined set.
func (s ExecutionStatus) Validate() error {
	if _, ok := getExecutionStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("executionStatus")
	}
	return nil
}

// String returns the canonical upper-snake name.
func (s ExecutionStatus) String() string {
	return getExecutionStatusStrings()[s]
}

// ExecutionStatusFromString parses the canonical upper-snake name.
func ExecutionStatusFromString(name string) (ExecutionStatus, error) {
	for status, str := range getExecutionStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return ExecutionStatusUnknown, errs.NewValueIsInvalidError("executionStatus")
}

// CompletedStep is one successfully finished forward step: its name, the
// result string the adapter returned, and when it finished.
type CompletedStep struct {
	Name        string
	Result      string
	CompletedAt time.Time
}

var (
	// ErrExecutionIsNotConstructed is returned when an Execution instance
	// was not created through NewExecution or RestoreExecution.
	ErrExecutionIsNotConstructed = errors.New("Execution must be created via NewExecution or RestoreExecution constructor")
	// ErrExecutionIsNotRunning is returned when mutating an execution that
	// already reached a terminal status.
	ErrExecutionIsNotRunning = errors.New("saga execution is not running")
	// ErrStepNameIsRequired is returned for a completed step without a name.
	ErrStepNameIsRequired = errs.NewValueIsRequiredError("stepName")
)

// Execution is the aggregate root for one orchestration attempt over one
// order. Completed forward steps are appended in completion order; the
// compensation plan is exactly that log reversed.
type Execution struct {
	id            kernel.UUID
	orderID       kernel.UUID
	completed     []CompletedStep
	status        ExecutionStatus
	startedAt     time.Time
	finishedAt    *time.Time
	isConstructed bool
}

// NewExecution starts a Running execution for the given order.
func NewExecution(id kernel.UUID, orderID kernel.UUID) (*Execution, error) {
	e := &Execution{
		status:        Running,
		startedAt:     time.Now().UTC(),
		isConstructed: true,
	}
	if err := errors.Join(e.setID(id), e.setOrderID(orderID)); err != nil {
		return nil, err
	}
	return e, nil
}

// RestoreExecution reconstructs an Execution from its durable step log.
func RestoreExecution(
	id kernel.UUID,
	orderID kernel.UUID,
	completed []CompletedStep,
	status ExecutionStatus,
	startedAt time.Time,
	finishedAt *time.Time,
) (*Execution, error) {
	e := &Execution{isConstructed: true}
	if err := errors.Join(e.setID(id), e.setOrderID(orderID), status.Validate()); err != nil {
		return nil, err
	}
	e.completed = make([]CompletedStep, len(completed))
	copy(e.completed, completed)
	e.status = status
	e.startedAt = startedAt
	e.finishedAt = finishedAt
	return e, nil
}

// Validate ensures the Execution was created through a constructor.
func (e *Execution) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrExecutionIsNotConstructed
	}
	return nil
}

// ID returns the execution's unique identifier.
func (e *Execution) ID() kernel.UUID {
	return e.id
}

// OrderID returns the orchestrated order's identifier.
func (e *Execution) OrderID() kernel.UUID {
	return e.orderID
}

// Status returns the execution's current status.
func (e *Execution) Status() ExecutionStatus {
	return e.status
}

// StartedAt returns when the execution began.
func (e *Execution) StartedAt() time.Time {
	return e.startedAt
}

// FinishedAt returns when the execution reached a terminal status, or nil
// while running.
func (e *Execution) FinishedAt() *time.Time {
	return e.finishedAt
}

// CompletedSteps returns the forward step log in completion order.
func (e *Execution) CompletedSteps() []CompletedStep {
	steps := make([]CompletedStep, len(e.completed))
	copy(steps, e.completed)
	return steps
}

// HasCompleted reports whether the named step is in the completed log.
func (e *Execution) HasCompleted(stepName string) bool {
	for _, s := range e.completed {
		if s.Name == stepName {
			return true
		}
	}
	return false
}

// CompensationPlan returns the completed steps in reverse completion
// order, i.e. the exact order their compensations must run in.
func (e *Execution) CompensationPlan() []CompletedStep {
	plan := make([]CompletedStep, len(e.completed))
	for i, s := range e.completed {
		plan[len(e.completed)-1-i] = s
	}
	return plan
}

// RecordCompleted appends a successfully finished forward step to the log.
func (e *Execution) RecordCompleted(stepName string, result string) error {
	if e.status != Running {
		return ErrExecutionIsNotRunning
	}
	if stepName == "" {
		return ErrStepNameIsRequired
	}
	e.completed = append(e.completed, CompletedStep{
		Name:        stepName,
		Result:      result,
		CompletedAt: time.Now().UTC(),
	})
	return nil
}

// MarkSucceeded finishes the execution after all forward steps completed.
func (e *Execution) MarkSucceeded() error {
	return e.finish(Succeeded)
}

// MarkCompensated finishes the execution after a clean rollback.
func (e *Execution) MarkCompensated() error {
	return e.finish(Compensated)
}

// MarkManualIntervention finishes the execution after a failed rollback.
func (e *Execution) MarkManualIntervention() error {
	return e.finish(ManualIntervention)
}

func (e *Execution) finish(status ExecutionStatus) error {
	if e.status != Running {
		return ErrExecutionIsNotRunning
	}
	now := time.Now().UTC()
	e.status = status
	e.finishedAt = &now
	return nil
}

func (e *Execution) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Execution) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	e.orderID = orderID
	return nil
}

// IntegrationError reports that a forward step's adapter call failed or
// timed out. It is recoverable: the orchestrator answers it with
// compensation, never by re-raising to the caller.
type IntegrationError struct {
	Step  string
	Cause error
}

// NewIntegrationError wraps an adapter failure for the named step.
func NewIntegrationError(step string, cause error) *IntegrationError {
	return &IntegrationError{Step: step, Cause: cause}
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("saga step %s failed: %s", e.Step, e.Cause)
}

func (e *IntegrationError) Unwrap() error {
	return e.Cause
}

// CompensationError reports that rolling back a completed step failed.
// It is never auto-retried; it carries both the original forward failure
// and the compensation failure for the manual-intervention sink.
type CompensationError struct {
	Step     string
	Original error
	Cause    error
}

// NewCompensationError wraps a failed rollback of the named step.
func NewCompensationError(step string, original error, cause error) *CompensationError {
	return &CompensationError{Step: step, Original: original, Cause: cause}
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation for step %s failed: %s (original failure: %s)", e.Step, e.Cause, e.Original)
}

func (e *CompensationError) Unwrap() error {
	return e.Cause
}
