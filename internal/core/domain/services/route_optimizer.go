package services

import (
	"math"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
)

// averageSpeedKmh is the fixed speed assumption for route time estimates.
const averageSpeedKmh = 40.0

// RouteOptimizer is a domain service that orders a driver's delivery stops
// using a nearest-neighbor heuristic over great-circle distances.
//
// Business rules:
//   - the route always begins at the provided start point
//   - from the current point, the closest unvisited delivery point is
//     chosen next; distance ties keep input order
//   - a route is produced for every input: when any delivery point lacks
//     resolved coordinates, optimization degrades to a fallback route that
//     keeps the input order instead of failing
//   - total distance is the sum of consecutive leg distances; estimated
//     time assumes a fixed 40 km/h, rounded up to whole minutes
type RouteOptimizer struct{}

// NewRouteOptimizer creates a new RouteOptimizer instance.
func NewRouteOptimizer() RouteOptimizer {
	return RouteOptimizer{}
}

// Optimize builds an OptimizedRoute for the driver over the given delivery
// points. The returned route's kind is Optimized, or Fallback when the
// nearest-neighbor pass cannot run (missing coordinates on the start or
// any delivery point).
//
// The returned point sequence is always a permutation of the input
// delivery points, prefixed with the start point.
func (o RouteOptimizer) Optimize(
	driverID kernel.UUID,
	start route.Point,
	deliveryPoints []route.Point,
) (*route.OptimizedRoute, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	for _, p := range deliveryPoints {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	kind := route.Optimized
	ordered := o.nearestNeighbor(start, deliveryPoints)
	if ordered == nil {
		ordered = append([]route.Point{start}, deliveryPoints...)
		kind = route.Fallback
	}

	totalDistanceKm := o.totalDistance(ordered)
	return route.NewOptimizedRoute(
		kernel.NewUUID(),
		driverID,
		ordered,
		totalDistanceKm,
		estimateMinutes(totalDistanceKm),
		kind,
	)
}

// nearestNeighbor returns start plus the delivery points in greedy
// closest-first order, or nil when any point lacks coordinates.
func (o RouteOptimizer) nearestNeighbor(start route.Point, deliveryPoints []route.Point) []route.Point {
	if !start.HasCoordinates() {
		return nil
	}
	for _, p := range deliveryPoints {
		if !p.HasCoordinates() {
			return nil
		}
	}

	ordered := make([]route.Point, 0, len(deliveryPoints)+1)
	ordered = append(ordered, start)

	remaining := make([]route.Point, len(deliveryPoints))
	copy(remaining, deliveryPoints)

	current := start
	for len(remaining) > 0 {
		nearestIdx := 0
		nearestDistance := current.DistanceTo(remaining[0])
		for i := 1; i < len(remaining); i++ {
			if d := current.DistanceTo(remaining[i]); d < nearestDistance {
				nearestIdx = i
				nearestDistance = d
			}
		}
		current = remaining[nearestIdx]
		ordered = append(ordered, current)
		remaining = append(remaining[:nearestIdx], remaining[nearestIdx+1:]...)
	}
	return ordered
}

func (o RouteOptimizer) totalDistance(points []route.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += points[i].DistanceTo(points[i+1])
	}
	return total
}

// estimateMinutes converts a distance into whole minutes at the fixed
// average speed, rounded up.
func estimateMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm / averageSpeedKmh * 60))
}
