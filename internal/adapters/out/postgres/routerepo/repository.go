package routerepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/route"
	"swiftlogistics/internal/pkg/errs"
)

// GormRouteRepository implements ports.RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteRepository creates a new GORM route repository.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new route with all its points to the database.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.OptimizedRoute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing route to the database. Points are saved through
// the association, keyed by (route_id, seq); the point set of a route never
// changes after planning, only point statuses do.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.OptimizedRoute) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a route by ID with its points in visiting order.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.OptimizedRoute, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Points", pointsInVisitingOrder).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriver retrieves the driver's current route: the single route
// in PLANNED or ACTIVE status.
func (r *GormRouteRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*route.OptimizedRoute, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Points", pointsInVisitingOrder).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), []string{route.Planned.String(), route.Active.String()}).
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route for driver", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatus retrieves all routes in the given status.
func (r *GormRouteRepository) GetAllInStatus(ctx context.Context, status route.Status) ([]*route.OptimizedRoute, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []RouteDTO
	if err := r.db.WithContext(ctx).
		Preload("Points", pointsInVisitingOrder).
		Where("status = ?", status.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	routes := make([]*route.OptimizedRoute, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, aggregate)
	}
	return routes, nil
}

func pointsInVisitingOrder(db *gorm.DB) *gorm.DB {
	return db.Order("route_points.seq")
}
