package kernel_test

import (
	"testing"

	"swiftlogistics/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(6.9271, 79.8612)

		require.NoError(t, err)
		assert.InDelta(t, 6.9271, point.Latitude(), 1e-9)
		assert.InDelta(t, 79.8612, point.Longitude(), 1e-9)
	})

	t.Run("boundary coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90, 180)
		require.NoError(t, err)

		_, err = kernel.NewGeoPoint(-90, -180)
		require.NoError(t, err)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.5, 79.8612)
		require.Error(t, err)
	})

	t.Run("longitude out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(6.9271, -180.1)
		require.Error(t, err)
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var point kernel.GeoPoint
		require.ErrorIs(t, point.Validate(), kernel.ErrGeoPointIsNotConstructed)
	})

	t.Run("constructed point is valid", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(6.9271, 79.8612)
		require.NoError(t, point.Validate())
	})
}

func TestGeoPoint_DistanceTo(t *testing.T) {
	t.Run("known distance", func(t *testing.T) {
		// Colombo Fort to Mount Lavinia, roughly 11.5 km apart.
		colombo, _ := kernel.NewGeoPoint(6.9271, 79.8612)
		mountLavinia, _ := kernel.NewGeoPoint(6.8390, 79.8653)

		distance, err := colombo.DistanceTo(mountLavinia)

		require.NoError(t, err)
		assert.InDelta(t, 9.8, distance, 0.5)
	})

	t.Run("distance to self is zero", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(6.9271, 79.8612)

		distance, err := point.DistanceTo(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, distance, 1e-9)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(6.9271, 79.8612)
		b, _ := kernel.NewGeoPoint(7.2906, 80.6337)

		ab, err := a.DistanceTo(b)
		require.NoError(t, err)
		ba, err := b.DistanceTo(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(6.9271, 79.8612)
		var zero kernel.GeoPoint

		_, err := point.DistanceTo(zero)
		require.Error(t, err)
	})
}

func TestUUID(t *testing.T) {
	t.Run("NewUUID is valid and unique", func(t *testing.T) {
		a := kernel.NewUUID()
		b := kernel.NewUUID()

		require.NoError(t, a.Validate())
		require.NoError(t, b.Validate())
		assert.False(t, a.IsEqual(b))
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var id kernel.UUID
		require.Error(t, id.Validate())
	})

	t.Run("string round trip", func(t *testing.T) {
		id := kernel.NewUUID()

		parsed, err := kernel.UUIDFromString(id.String())

		require.NoError(t, err)
		assert.True(t, id.IsEqual(parsed))
	})

	t.Run("bytes round trip", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, id.IsEqual(restored))
	})

	t.Run("invalid string is rejected", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
	})
}
