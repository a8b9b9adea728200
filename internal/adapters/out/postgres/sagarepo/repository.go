package sagarepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/saga"
	"swiftlogistics/internal/pkg/errs"
)

// GormSagaExecutionRepository implements ports.SagaExecutionRepository
// using GORM.
type GormSagaExecutionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSagaExecutionRepository creates a new GORM saga-execution
// repository.
func NewGormSagaExecutionRepository(db *gorm.DB, tracker aggregateTracker) *GormSagaExecutionRepository {
	return &GormSagaExecutionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new execution to the database.
func (r *GormSagaExecutionRepository) Add(ctx context.Context, execution *saga.Execution) error {
	if err := execution.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(execution)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(execution.ID(), execution)
	return nil
}

// Update saves an existing execution to the database.
func (r *GormSagaExecutionRepository) Update(ctx context.Context, execution *saga.Execution) error {
	if err := execution.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(execution)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(execution.ID(), execution)
	return nil
}

// Get retrieves an execution by ID.
func (r *GormSagaExecutionRepository) Get(ctx context.Context, id kernel.UUID) (*saga.Execution, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ExecutionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sagaExecution", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllRunning retrieves every execution still in RUNNING status, oldest
// first. This is the recovery work list after a process restart.
func (r *GormSagaExecutionRepository) GetAllRunning(ctx context.Context) ([]*saga.Execution, error) {
	var dtos []ExecutionDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", saga.Running.String()).
		Order("started_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	executions := make([]*saga.Execution, 0, len(dtos))
	for _, dto := range dtos {
		execution, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		executions = append(executions, execution)
	}
	return executions, nil
}
