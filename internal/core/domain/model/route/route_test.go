package route

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/pkg/errs"
)

func mustGeoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	assert.NoError(t, err)
	return p
}

func buildTestRoute(t *testing.T, orderRefs ...string) *OptimizedRoute {
	t.Helper()

	start, err := NewStartPoint("Depot, Main Street 1", mustGeoPoint(t, 52.52, 13.405))
	assert.NoError(t, err)

	points := []Point{start}
	for i, ref := range orderRefs {
		p, err := NewDeliveryPoint("Somewhere 1", mustGeoPoint(t, 52.53+float64(i)*0.01, 13.41), ref)
		assert.NoError(t, err)
		points = append(points, p)
	}

	r, err := NewOptimizedRoute(kernel.NewUUID(), kernel.NewUUID(), points, 12.5, 19, Optimized)
	assert.NoError(t, err)
	return r
}

func Test_NewOptimizedRoute_StartsPlanned(t *testing.T) {
	r := buildTestRoute(t, "ORD-1", "ORD-2")

	assert.NoError(t, r.Validate())
	assert.Equal(t, Planned, r.Status())
	assert.Equal(t, Optimized, r.Kind())
	assert.Len(t, r.Points(), 3)
	assert.Len(t, r.DeliveryPoints(), 2)
	assert.Equal(t, 2, r.RemainingDeliveries())
	assert.Zero(t, r.CompletedDeliveries())
}

func Test_NewOptimizedRoute_RequiresPoints(t *testing.T) {
	_, err := NewOptimizedRoute(kernel.NewUUID(), kernel.NewUUID(), nil, 0, 0, Optimized)
	assert.ErrorIs(t, err, ErrRoutePointsAreRequired)
}

func Test_NewOptimizedRoute_RequiresStartPointFirst(t *testing.T) {
	delivery, err := NewDeliveryPoint("Somewhere 1", mustGeoPoint(t, 52.53, 13.41), "ORD-1")
	assert.NoError(t, err)

	_, err = NewOptimizedRoute(kernel.NewUUID(), kernel.NewUUID(), []Point{delivery}, 0, 0, Optimized)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func Test_NewOptimizedRoute_RejectsNegativeEstimates(t *testing.T) {
	start, err := NewStartPoint("Depot", mustGeoPoint(t, 52.52, 13.405))
	assert.NoError(t, err)

	_, err = NewOptimizedRoute(kernel.NewUUID(), kernel.NewUUID(), []Point{start}, -1, 0, Optimized)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = NewOptimizedRoute(kernel.NewUUID(), kernel.NewUUID(), []Point{start}, 0, -1, Optimized)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func Test_OptimizedRoute_Activate(t *testing.T) {
	r := buildTestRoute(t, "ORD-1")

	assert.NoError(t, r.Activate())
	assert.Equal(t, Active, r.Status())

	assert.ErrorIs(t, r.Activate(), ErrRouteIsNotPlanned)
}

func Test_OptimizedRoute_CompletePoint(t *testing.T) {
	r := buildTestRoute(t, "ORD-1", "ORD-2")
	assert.NoError(t, r.Activate())

	completedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, r.CompletePoint("ORD-1", completedAt))

	assert.Equal(t, 1, r.CompletedDeliveries())
	assert.Equal(t, 1, r.RemainingDeliveries())

	p, found := r.FindDeliveryPoint("ORD-1")
	assert.True(t, found)
	assert.Equal(t, PointCompleted, p.Status())
	assert.Equal(t, completedAt, *p.CompletedAt())
}

func Test_OptimizedRoute_CompletePoint_RejectsDouble(t *testing.T) {
	r := buildTestRoute(t, "ORD-1")
	assert.NoError(t, r.Activate())
	assert.NoError(t, r.CompletePoint("ORD-1", time.Now()))

	assert.ErrorIs(t, r.CompletePoint("ORD-1", time.Now()), ErrPointAlreadyCompleted)
	assert.Equal(t, 1, r.CompletedDeliveries())
}

func Test_OptimizedRoute_CompletePoint_RejectsUnknownRefAndInactiveRoute(t *testing.T) {
	r := buildTestRoute(t, "ORD-1")

	assert.ErrorIs(t, r.CompletePoint("ORD-1", time.Now()), ErrRouteIsNotActive)

	assert.NoError(t, r.Activate())
	assert.ErrorIs(t, r.CompletePoint("ORD-9", time.Now()), errs.ErrObjectNotFound)
}

func Test_OptimizedRoute_NextPendingDelivery_FollowsVisitingOrder(t *testing.T) {
	r := buildTestRoute(t, "ORD-1", "ORD-2")
	assert.NoError(t, r.Activate())

	next, found := r.NextPendingDelivery()
	assert.True(t, found)
	assert.Equal(t, "ORD-1", next.OrderRef())

	assert.NoError(t, r.CompletePoint("ORD-1", time.Now()))

	next, found = r.NextPendingDelivery()
	assert.True(t, found)
	assert.Equal(t, "ORD-2", next.OrderRef())
}

func Test_OptimizedRoute_Complete(t *testing.T) {
	r := buildTestRoute(t, "ORD-1")
	assert.NoError(t, r.Activate())

	assert.ErrorIs(t, r.Complete(), ErrRouteHasPendingDeliveries)

	assert.NoError(t, r.CompletePoint("ORD-1", time.Now()))
	assert.NoError(t, r.Complete())
	assert.Equal(t, Completed, r.Status())
}

func Test_OptimizedRoute_Cancel_SkipsPendingPoints(t *testing.T) {
	r := buildTestRoute(t, "ORD-1", "ORD-2")
	assert.NoError(t, r.Activate())
	assert.NoError(t, r.CompletePoint("ORD-1", time.Now()))

	assert.NoError(t, r.Cancel())
	assert.Equal(t, Cancelled, r.Status())

	p, _ := r.FindDeliveryPoint("ORD-1")
	assert.Equal(t, PointCompleted, p.Status())
	p, _ = r.FindDeliveryPoint("ORD-2")
	assert.Equal(t, PointSkipped, p.Status())

	assert.ErrorIs(t, r.Cancel(), ErrRouteIsTerminal)
}

func Test_Point_DistanceTo_ZeroWithoutCoordinates(t *testing.T) {
	a, err := NewDeliveryPoint("A street 1", kernel.GeoPoint{}, "ORD-1")
	assert.NoError(t, err)
	b, err := NewDeliveryPoint("B street 2", mustGeoPoint(t, 52.52, 13.405), "ORD-2")
	assert.NoError(t, err)

	assert.False(t, a.HasCoordinates())
	assert.Zero(t, a.DistanceTo(b))
	assert.Zero(t, b.DistanceTo(a))
}

func Test_Point_DistanceTo_UsesHaversine(t *testing.T) {
	a, err := NewDeliveryPoint("Berlin", mustGeoPoint(t, 52.5200, 13.4050), "ORD-1")
	assert.NoError(t, err)
	b, err := NewDeliveryPoint("Hamburg", mustGeoPoint(t, 53.5511, 9.9937), "ORD-2")
	assert.NoError(t, err)

	assert.InDelta(t, 255.0, a.DistanceTo(b), 3.0)
}

func Test_RestoreOptimizedRoute_KeepsPersistedState(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	start, err := NewStartPoint("Depot", mustGeoPoint(t, 52.52, 13.405))
	assert.NoError(t, err)
	completedAt := created.Add(time.Hour)
	delivered, err := RestorePoint("Somewhere 1", mustGeoPoint(t, 52.53, 13.41), "ORD-1", PointCompleted, &completedAt)
	assert.NoError(t, err)

	r, err := RestoreOptimizedRoute(
		kernel.NewUUID(), kernel.NewUUID(), []Point{start, delivered},
		3.4, 6, Active, Fallback, created, created)
	assert.NoError(t, err)

	assert.Equal(t, Active, r.Status())
	assert.Equal(t, Fallback, r.Kind())
	assert.Equal(t, 1, r.CompletedDeliveries())
	assert.Zero(t, r.RemainingDeliveries())
}
