package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/kernel"
)

// Geocoder resolves free-text addresses to geographic coordinates.
// A failed resolution is an explicit error; callers degrade (fallback
// routes, "no data" ETA results) instead of propagating it.
type Geocoder interface {
	// Resolve returns the coordinates for an address.
	Resolve(ctx context.Context, address string) (kernel.GeoPoint, error)
}
