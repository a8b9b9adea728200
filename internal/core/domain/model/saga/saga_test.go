package saga

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"swiftlogistics/internal/core/domain/model/kernel"
)

func mustNewExecution(t *testing.T) *Execution {
	t.Helper()
	e, err := NewExecution(kernel.NewUUID(), kernel.NewUUID())
	assert.NoError(t, err)
	return e
}

func Test_NewExecution_StartsRunningWithEmptyLog(t *testing.T) {
	e := mustNewExecution(t)

	assert.NoError(t, e.Validate())
	assert.Equal(t, Running, e.Status())
	assert.Empty(t, e.CompletedSteps())
	assert.Nil(t, e.FinishedAt())
}

func Test_NewExecution_RejectsInvalidIDs(t *testing.T) {
	_, err := NewExecution(kernel.UUID{}, kernel.NewUUID())
	assert.Error(t, err)

	_, err = NewExecution(kernel.NewUUID(), kernel.UUID{})
	assert.Error(t, err)
}

func Test_Execution_RecordCompleted_AppendsInOrder(t *testing.T) {
	e := mustNewExecution(t)

	assert.NoError(t, e.RecordCompleted(StepCMSSubmit, "CMS-ACK-1"))
	assert.NoError(t, e.RecordCompleted(StepWMSAdd, "PKG-7"))

	steps := e.CompletedSteps()
	assert.Len(t, steps, 2)
	assert.Equal(t, StepCMSSubmit, steps[0].Name)
	assert.Equal(t, "CMS-ACK-1", steps[0].Result)
	assert.Equal(t, StepWMSAdd, steps[1].Name)

	assert.True(t, e.HasCompleted(StepCMSSubmit))
	assert.False(t, e.HasCompleted(StepROSPlan))
}

func Test_Execution_RecordCompleted_RequiresName(t *testing.T) {
	e := mustNewExecution(t)
	assert.ErrorIs(t, e.RecordCompleted("", "x"), ErrStepNameIsRequired)
}

func Test_Execution_CompensationPlan_IsReverseCompletionOrder(t *testing.T) {
	e := mustNewExecution(t)
	assert.NoError(t, e.RecordCompleted(StepCMSSubmit, ""))
	assert.NoError(t, e.RecordCompleted(StepWMSAdd, ""))
	assert.NoError(t, e.RecordCompleted(StepROSPlan, ""))

	plan := e.CompensationPlan()
	assert.Len(t, plan, 3)
	assert.Equal(t, StepROSPlan, plan[0].Name)
	assert.Equal(t, StepWMSAdd, plan[1].Name)
	assert.Equal(t, StepCMSSubmit, plan[2].Name)
}

func Test_Execution_CompensationPlan_CoversOnlyCompletedSteps(t *testing.T) {
	e := mustNewExecution(t)
	assert.NoError(t, e.RecordCompleted(StepCMSSubmit, ""))

	plan := e.CompensationPlan()
	assert.Len(t, plan, 1)
	assert.Equal(t, StepCMSSubmit, plan[0].Name)
}

func Test_Execution_TerminalStatusesAreFinal(t *testing.T) {
	e := mustNewExecution(t)
	assert.NoError(t, e.MarkSucceeded())
	assert.NotNil(t, e.FinishedAt())

	assert.ErrorIs(t, e.MarkCompensated(), ErrExecutionIsNotRunning)
	assert.ErrorIs(t, e.RecordCompleted(StepROSPlan, ""), ErrExecutionIsNotRunning)
}

func Test_Execution_MarkCompensatedAndManualIntervention(t *testing.T) {
	e := mustNewExecution(t)
	assert.NoError(t, e.MarkCompensated())
	assert.Equal(t, Compensated, e.Status())

	e = mustNewExecution(t)
	assert.NoError(t, e.MarkManualIntervention())
	assert.Equal(t, ManualIntervention, e.Status())
}

func Test_RestoreExecution_KeepsStepLog(t *testing.T) {
	original := mustNewExecution(t)
	assert.NoError(t, original.RecordCompleted(StepCMSSubmit, "ACK"))

	restored, err := RestoreExecution(
		original.ID(), original.OrderID(), original.CompletedSteps(),
		Running, original.StartedAt(), nil)
	assert.NoError(t, err)

	assert.True(t, restored.HasCompleted(StepCMSSubmit))
	assert.Equal(t, Running, restored.Status())
}

func Test_IntegrationError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewIntegrationError(StepWMSAdd, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), StepWMSAdd)
}

func Test_CompensationError_CarriesBothFailures(t *testing.T) {
	original := errors.New("timeout")
	cause := errors.New("rollback refused")
	err := NewCompensationError(StepCMSSubmit, original, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "rollback refused")
}
