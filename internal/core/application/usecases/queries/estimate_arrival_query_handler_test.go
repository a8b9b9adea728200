package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swiftlogistics/internal/core/application/tracking"
	"swiftlogistics/internal/core/application/usecases/queries"
	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

type mockArrivalEstimator struct{ mock.Mock }

func (m *mockArrivalEstimator) EstimateArrival(ctx context.Context, driverID kernel.UUID, destinationAddress string) (tracking.ETAResult, error) {
	args := m.Called(ctx, driverID, destinationAddress)
	return args.Get(0).(tracking.ETAResult), args.Error(1)
}

func Test_EstimateArrival_DelegatesToEstimator(t *testing.T) {
	estimator := &mockArrivalEstimator{}
	handler := queries.NewEstimateArrivalQueryHandler(estimator)
	driverID := kernel.NewUUID()

	expected := tracking.ETAResult{Status: tracking.ETAStatusOK, Minutes: 14, DistanceKm: 11.1}
	estimator.On("EstimateArrival", mock.Anything, driverID, "1 Far St").Return(expected, nil)

	query, err := queries.NewEstimateArrivalQuery(driverID, "1 Far St")
	require.NoError(t, err)
	result, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, expected, result)
}

func Test_EstimateArrivalQuery_Validation(t *testing.T) {
	_, err := queries.NewEstimateArrivalQuery(kernel.UUID{}, "1 Far St")
	assert.Error(t, err)

	_, err = queries.NewEstimateArrivalQuery(kernel.NewUUID(), "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	handler := queries.NewEstimateArrivalQueryHandler(&mockArrivalEstimator{})
	_, err = handler.Handle(context.Background(), queries.EstimateArrivalQuery{})
	assert.ErrorIs(t, err, queries.ErrEstimateArrivalQueryIsNotConstructed)
}
