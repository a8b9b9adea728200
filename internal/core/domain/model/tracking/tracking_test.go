package tracking

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

func Test_NewDriverLocation(t *testing.T) {
	reportedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	loc, err := NewDriverLocation(kernel.NewUUID(), mustGeoPoint(t, 52.52, 13.405), 35.5, 270, reportedAt)

	assert.NoError(t, err)
	assert.Equal(t, 35.5, loc.SpeedKmh)
	assert.Equal(t, 270.0, loc.HeadingDeg)
	assert.Equal(t, reportedAt, loc.ReportedAt)
}

func Test_NewDriverLocation_RejectsInvalidInput(t *testing.T) {
	pos := mustGeoPoint(t, 52.52, 13.405)

	_, err := NewDriverLocation(kernel.UUID{}, pos, 0, 0, time.Now())
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = NewDriverLocation(kernel.NewUUID(), kernel.GeoPoint{}, 0, 0, time.Now())
	assert.Error(t, err)

	_, err = NewDriverLocation(kernel.NewUUID(), pos, -1, 0, time.Now())
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = NewDriverLocation(kernel.NewUUID(), pos, 0, 360, time.Now())
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func Test_NewDriverLocation_DefaultsZeroTimestampToNow(t *testing.T) {
	loc, err := NewDriverLocation(kernel.NewUUID(), mustGeoPoint(t, 52.52, 13.405), 0, 0, time.Time{})

	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), loc.ReportedAt, time.Second)
}

func Test_NewRouteProgress(t *testing.T) {
	p, err := NewRouteProgress(kernel.NewUUID(), kernel.NewUUID())

	assert.NoError(t, err)
	assert.Zero(t, p.CompletedCount())
	_, hasPosition := p.LastPosition()
	assert.False(t, hasPosition)
}

func Test_RouteProgress_RecordPosition(t *testing.T) {
	p, err := NewRouteProgress(kernel.NewUUID(), kernel.NewUUID())
	assert.NoError(t, err)

	pos := mustGeoPoint(t, 52.52, 13.405)
	assert.NoError(t, p.RecordPosition(pos))

	got, ok := p.LastPosition()
	assert.True(t, ok)
	equal, err := got.IsEqual(pos)
	assert.NoError(t, err)
	assert.True(t, equal)
}

func Test_RouteProgress_MarkCompleted_KeepsFirstTimestamp(t *testing.T) {
	p, err := NewRouteProgress(kernel.NewUUID(), kernel.NewUUID())
	assert.NoError(t, err)

	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.MarkCompleted("ORD-1", first)
	p.MarkCompleted("ORD-1", first.Add(time.Hour))

	at, ok := p.CompletedAt("ORD-1")
	assert.True(t, ok)
	assert.Equal(t, first, at)
	assert.Equal(t, 1, p.CompletedCount())
}

func Test_RouteProgress_CompletedRefs_ReturnsCopy(t *testing.T) {
	p, err := NewRouteProgress(kernel.NewUUID(), kernel.NewUUID())
	assert.NoError(t, err)
	p.MarkCompleted("ORD-1", time.Now())

	refs := p.CompletedRefs()
	delete(refs, "ORD-1")

	assert.Equal(t, 1, p.CompletedCount())
}
