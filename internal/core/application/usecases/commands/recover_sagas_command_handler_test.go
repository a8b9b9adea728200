package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swiftlogistics/internal/core/application/usecases/commands"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/domain/model/saga"
)

func newRecoverHandler(f *sagaFixture) commands.RecoverSagasCommandHandler {
	uow := &stubUoW{orders: f.orders, sagas: f.sagas}
	return commands.NewRecoverSagasCommandHandler(
		stubSagaUoWFactory{uow: uow}, f.handler, discardLogger(),
	)
}

// interruptedExecution builds a RUNNING execution for the order with the
// given forward steps already logged.
func interruptedExecution(t *testing.T, o *order.Order, stepNames ...string) *saga.Execution {
	t.Helper()
	execution, err := saga.NewExecution(kernel.NewUUID(), o.ID())
	require.NoError(t, err)
	for _, name := range stepNames {
		require.NoError(t, execution.RecordCompleted(name, "ACK"))
	}
	return execution
}

func Test_RecoverSagas_NothingRunning(t *testing.T) {
	f := newSagaFixture(time.Second)
	f.sagas.On("GetAllRunning", mock.Anything).Return([]*saga.Execution{}, nil)

	handler := newRecoverHandler(f)
	command := commands.NewRecoverSagasCommand()
	result, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	assert.Zero(t, result.Recovered)
	assert.Zero(t, result.Escalated)
}

func Test_RecoverSagas_CompensatesInterruptedExecution(t *testing.T) {
	f := newSagaFixture(time.Second)
	o := newSubmittedOrder(t)
	require.NoError(t, o.MarkProcessing())
	require.NoError(t, o.MarkInWarehouse())
	execution := interruptedExecution(t, o, saga.StepCMSSubmit, saga.StepWMSAdd)

	f.sagas.On("GetAllRunning", mock.Anything).Return([]*saga.Execution{execution}, nil)
	f.expectPersistence(o)
	f.wms.On("RemovePackage", mock.Anything, o).Return(nil)
	f.cms.On("CancelSubmission", mock.Anything, o).Return(nil)
	f.publisher.On("PublishOrderStatusChanged", mock.Anything, o).Return(nil)

	handler := newRecoverHandler(f)
	command := commands.NewRecoverSagasCommand()
	result, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Recovered)
	assert.Zero(t, result.Escalated)
	assert.Equal(t, order.Failed, o.Status())
	assert.Equal(t, saga.Compensated, execution.Status())

	// Reverse completion order: the warehouse entry goes before the client
	// submission.
	require.Len(t, f.wms.Calls, 1)
	require.Len(t, f.cms.Calls, 1)
}

func Test_RecoverSagas_ClosesLogWhenAllStepsFinished(t *testing.T) {
	f := newSagaFixture(time.Second)
	o := newSubmittedOrder(t)
	require.NoError(t, o.MarkProcessing())
	require.NoError(t, o.MarkInWarehouse())
	require.NoError(t, o.MarkRoutePlanned())
	execution := interruptedExecution(t, o, saga.StepCMSSubmit, saga.StepWMSAdd, saga.StepROSPlan)

	f.sagas.On("GetAllRunning", mock.Anything).Return([]*saga.Execution{execution}, nil)
	f.expectPersistence(o)

	handler := newRecoverHandler(f)
	command := commands.NewRecoverSagasCommand()
	result, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Recovered)
	assert.Equal(t, saga.Succeeded, execution.Status())
	assert.Equal(t, order.RoutePlanned, o.Status())
	f.cms.AssertNotCalled(t, "CancelSubmission", mock.Anything, mock.Anything)
	f.wms.AssertNotCalled(t, "RemovePackage", mock.Anything, mock.Anything)
}

func Test_RecoverSagas_ClosesLogForTerminalOrder(t *testing.T) {
	f := newSagaFixture(time.Second)
	o := newSubmittedOrder(t)
	require.NoError(t, o.MarkFailed())
	execution := interruptedExecution(t, o, saga.StepCMSSubmit)

	f.sagas.On("GetAllRunning", mock.Anything).Return([]*saga.Execution{execution}, nil)
	f.expectPersistence(o)

	handler := newRecoverHandler(f)
	command := commands.NewRecoverSagasCommand()
	result, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Recovered)
	assert.Equal(t, saga.Compensated, execution.Status())
	f.cms.AssertNotCalled(t, "CancelSubmission", mock.Anything, mock.Anything)
}

func Test_RecoverSagas_EscalatesWhenCompensationFails(t *testing.T) {
	f := newSagaFixture(time.Second)
	o := newSubmittedOrder(t)
	require.NoError(t, o.MarkProcessing())
	execution := interruptedExecution(t, o, saga.StepCMSSubmit)

	f.sagas.On("GetAllRunning", mock.Anything).Return([]*saga.Execution{execution}, nil)
	f.expectPersistence(o)
	f.cms.On("CancelSubmission", mock.Anything, o).Return(errors.New("cms is down"))
	f.publisher.On("PublishManualIntervention", mock.Anything, mock.Anything).Return(nil)

	handler := newRecoverHandler(f)
	command := commands.NewRecoverSagasCommand()
	result, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	assert.Zero(t, result.Recovered)
	assert.Equal(t, 1, result.Escalated)
	assert.Equal(t, saga.ManualIntervention, execution.Status())
	assert.Equal(t, order.Processing, o.Status())
	f.publisher.AssertNumberOfCalls(t, "PublishManualIntervention", 1)
}
