package queries

import (
	"context"
	"time"

	"gorm.io/gorm"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
	"swiftlogistics/internal/core/domain/model/tracking"
)

// LiveTracker supplies the volatile per-driver bits of the dashboard view.
type LiveTracker interface {
	LastLocation(ctx context.Context, driverID kernel.UUID) (tracking.DriverLocation, bool, error)
	EstimateRouteCompletion(remainingDeliveries int) time.Time
}

// GetActiveDeliveriesQueryHandler builds the live delivery view by joining
// persisted routes and drivers, then enriching each row with the tracker's
// cached location and a completion forecast.
type GetActiveDeliveriesQueryHandler struct {
	db      *gorm.DB
	tracker LiveTracker
}

// NewGetActiveDeliveriesQueryHandler creates a handler for the dashboard
// query. Requires a GORM database connection for query execution.
func NewGetActiveDeliveriesQueryHandler(db *gorm.DB, tracker LiveTracker) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db, tracker: tracker}
}

// Handle executes the query. Routes in PLANNED or ACTIVE status count as
// active deliveries; rows are ordered by route creation time.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]ActiveDeliveryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]ActiveDeliveryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.driver_id,
			d.name,
			d.vehicle_number,
			r.status,
			r.kind,
			r.total_distance_km,
			r.estimated_minutes,
			COUNT(p.seq) FILTER (WHERE p.order_ref <> ?)                        AS total_deliveries,
			COUNT(p.seq) FILTER (WHERE p.order_ref <> ? AND p.status = ?)       AS completed_deliveries
		FROM routes r
		JOIN drivers d ON d.id = r.driver_id
		LEFT JOIN route_points p ON p.route_id = r.id
		WHERE r.status IN (?, ?)
		GROUP BY r.id, r.driver_id, d.name, d.vehicle_number, r.status, r.kind,
			r.total_distance_km, r.estimated_minutes, r.created_at
		ORDER BY r.created_at
	`,
		route.StartOrderRef,
		route.StartOrderRef, route.PointCompleted.String(),
		route.Planned.String(), route.Active.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp ActiveDeliveryResponse
		if err := rows.Scan(
			&resp.RouteID,
			&resp.DriverID,
			&resp.DriverName,
			&resp.VehicleNumber,
			&resp.RouteStatus,
			&resp.RouteKind,
			&resp.TotalDistanceKm,
			&resp.EstimatedMinutes,
			&resp.TotalDeliveries,
			&resp.CompletedDeliveries,
		); err != nil {
			return nil, err
		}
		resp.RemainingDeliveries = resp.TotalDeliveries - resp.CompletedDeliveries
		deliveries = append(deliveries, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range deliveries {
		if err := h.enrich(ctx, &deliveries[i]); err != nil {
			return nil, err
		}
	}
	return deliveries, nil
}

// enrich adds the next pending stop and the tracker's live data to a row.
func (h GetActiveDeliveriesQueryHandler) enrich(ctx context.Context, resp *ActiveDeliveryResponse) error {
	row := h.db.WithContext(ctx).Raw(`
		SELECT address, order_ref
		FROM route_points
		WHERE route_id = ? AND order_ref <> ? AND status = ?
		ORDER BY seq
		LIMIT 1
	`, resp.RouteID, route.StartOrderRef, route.PointPending.String()).Row()
	if err := row.Scan(&resp.NextDeliveryAddress, &resp.NextOrderRef); err != nil {
		// No pending stop left on the route.
		resp.NextDeliveryAddress = ""
		resp.NextOrderRef = ""
	}

	driverID, err := kernel.UUIDFromString(resp.DriverID)
	if err != nil {
		return err
	}
	location, ok, err := h.tracker.LastLocation(ctx, driverID)
	if err != nil {
		return err
	}
	if ok {
		resp.HasLocation = true
		resp.Latitude = location.Position.Latitude()
		resp.Longitude = location.Position.Longitude()
		resp.LocationReportedAt = location.ReportedAt
	}
	resp.EstimatedCompletion = h.tracker.EstimateRouteCompletion(resp.RemainingDeliveries)
	return nil
}
