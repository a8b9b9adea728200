// Package sagarepo persists saga executions: the durable step log the
// orchestrator writes before and after every integration call. The
// completed-step log is stored as a jsonb document since it is only ever
// read back whole.
package sagarepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/saga"
)

// ExecutionDTO is the database representation of a saga execution.
type ExecutionDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Steps      []byte     `gorm:"type:jsonb;not null"`
	Status     string     `gorm:"type:varchar(32);not null;index"`
	StartedAt  time.Time  `gorm:"not null"`
	FinishedAt *time.Time `gorm:""`
}

// TableName overrides GORM's default naming to use "saga_executions".
func (ExecutionDTO) TableName() string {
	return "saga_executions"
}

// stepDTO is the jsonb shape of one completed forward step.
type stepDTO struct {
	Name        string    `json:"name"`
	Result      string    `json:"result"`
	CompletedAt time.Time `json:"completedAt"`
}

func fromDomain(execution *saga.Execution) (ExecutionDTO, error) {
	completed := execution.CompletedSteps()
	steps := make([]stepDTO, 0, len(completed))
	for _, step := range completed {
		steps = append(steps, stepDTO{
			Name:        step.Name,
			Result:      step.Result,
			CompletedAt: step.CompletedAt,
		})
	}

	raw, err := json.Marshal(steps)
	if err != nil {
		return ExecutionDTO{}, err
	}

	return ExecutionDTO{
		ID:         execution.ID().Bytes(),
		OrderID:    execution.OrderID().Bytes(),
		Steps:      raw,
		Status:     execution.Status().String(),
		StartedAt:  execution.StartedAt(),
		FinishedAt: execution.FinishedAt(),
	}, nil
}

func toDomain(dto ExecutionDTO) (*saga.Execution, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := saga.ExecutionStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var steps []stepDTO
	if err := json.Unmarshal(dto.Steps, &steps); err != nil {
		return nil, err
	}
	completed := make([]saga.CompletedStep, 0, len(steps))
	for _, step := range steps {
		completed = append(completed, saga.CompletedStep{
			Name:        step.Name,
			Result:      step.Result,
			CompletedAt: step.CompletedAt,
		})
	}

	return saga.RestoreExecution(id, orderID, completed, status, dto.StartedAt, dto.FinishedAt)
}
