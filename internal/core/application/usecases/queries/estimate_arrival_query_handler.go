package queries

import (
	"context"

	"swiftlogistics/internal/core/application/tracking"
	"swiftlogistics/internal/core/domain/model/kernel"
)

// ArrivalEstimator computes arrival estimates from live tracking state.
type ArrivalEstimator interface {
	EstimateArrival(ctx context.Context, driverID kernel.UUID, destinationAddress string) (tracking.ETAResult, error)
}

// EstimateArrivalQueryHandler answers arrival estimate queries from the
// live tracker. Absent location data and unresolvable destinations are
// explicit negative results, never errors.
type EstimateArrivalQueryHandler struct {
	estimator ArrivalEstimator
}

// NewEstimateArrivalQueryHandler creates a handler for arrival estimates.
func NewEstimateArrivalQueryHandler(estimator ArrivalEstimator) EstimateArrivalQueryHandler {
	return EstimateArrivalQueryHandler{estimator: estimator}
}

// Handle computes the estimate for the query's driver and destination.
func (h EstimateArrivalQueryHandler) Handle(ctx context.Context, query EstimateArrivalQuery) (tracking.ETAResult, error) {
	if err := query.Validate(); err != nil {
		return tracking.ETAResult{}, err
	}
	return h.estimator.EstimateArrival(ctx, query.DriverID(), query.DestinationAddress())
}
