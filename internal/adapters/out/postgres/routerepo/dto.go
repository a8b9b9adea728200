// Package routerepo persists the optimized-route aggregate. Route points
// live in their own table keyed by (route_id, seq) so the visiting order
// survives round trips, and implement the only child association of the
// aggregate.
package routerepo

import (
	"time"

	"github.com/google/uuid"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
)

// RouteDTO is the database representation of an optimized route.
type RouteDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DriverID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status           string          `gorm:"type:varchar(32);not null;index"`
	Kind             string          `gorm:"type:varchar(32);not null"`
	TotalDistanceKm  float64         `gorm:"not null"`
	EstimatedMinutes int             `gorm:"not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
	Points           []RoutePointDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "routes".
func (RouteDTO) TableName() string {
	return "routes"
}

// RoutePointDTO is one stop of a route. Seq is the zero-based position in
// visiting order; seq 0 is always the synthetic start point. Coordinates
// are nullable: a point whose address never resolved has none.
type RoutePointDTO struct {
	RouteID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq         int        `gorm:"primaryKey"`
	Address     string     `gorm:"type:varchar(512);not null"`
	Latitude    *float64   `gorm:""`
	Longitude   *float64   `gorm:""`
	OrderRef    string     `gorm:"type:varchar(64);not null"`
	Status      string     `gorm:"type:varchar(32);not null"`
	CompletedAt *time.Time `gorm:""`
}

// TableName overrides GORM's default naming to use "route_points".
func (RoutePointDTO) TableName() string {
	return "route_points"
}

func fromDomain(aggregate *route.OptimizedRoute) RouteDTO {
	routeID := aggregate.ID().Bytes()
	domainPoints := aggregate.Points()
	points := make([]RoutePointDTO, 0, len(domainPoints))

	for seq, point := range domainPoints {
		var latitude, longitude *float64
		if point.HasCoordinates() {
			lat := point.Coordinates().Latitude()
			lon := point.Coordinates().Longitude()
			latitude, longitude = &lat, &lon
		}

		points = append(points, RoutePointDTO{
			RouteID:     routeID,
			Seq:         seq,
			Address:     point.Address(),
			Latitude:    latitude,
			Longitude:   longitude,
			OrderRef:    point.OrderRef(),
			Status:      point.Status().String(),
			CompletedAt: point.CompletedAt(),
		})
	}

	return RouteDTO{
		ID:               routeID,
		DriverID:         aggregate.DriverID().Bytes(),
		Status:           aggregate.Status().String(),
		Kind:             aggregate.Kind().String(),
		TotalDistanceKm:  aggregate.TotalDistanceKm(),
		EstimatedMinutes: aggregate.EstimatedMinutes(),
		CreatedAt:        aggregate.CreatedAt(),
		UpdatedAt:        aggregate.UpdatedAt(),
		Points:           points,
	}
}

func toDomain(dto RouteDTO) (*route.OptimizedRoute, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	status, err := route.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	kind, err := route.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	points := make([]route.Point, 0, len(dto.Points))
	for _, pointDTO := range dto.Points {
		point, err := pointToDomain(pointDTO)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return route.RestoreOptimizedRoute(
		id,
		driverID,
		points,
		dto.TotalDistanceKm,
		dto.EstimatedMinutes,
		status,
		kind,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func pointToDomain(dto RoutePointDTO) (route.Point, error) {
	status, err := route.PointStatusFromString(dto.Status)
	if err != nil {
		return route.Point{}, err
	}

	coordinates := kernel.GeoPoint{}
	if dto.Latitude != nil && dto.Longitude != nil {
		coordinates, err = kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return route.Point{}, err
		}
	}

	return route.RestorePoint(dto.Address, coordinates, dto.OrderRef, status, dto.CompletedAt)
}
