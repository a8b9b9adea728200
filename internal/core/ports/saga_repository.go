package ports

import (
	"context"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/saga"
)

// SagaExecutionRepository defines the durable step-log contract for saga
// executions. The step log is written before and after every external
// call so a recovery pass can resume or compensate after a crash.
type SagaExecutionRepository interface {
	// Add persists a new execution.
	Add(ctx context.Context, aggregate *saga.Execution) error

	// Update persists the execution's step log and status.
	Update(ctx context.Context, aggregate *saga.Execution) error

	// Get retrieves an execution by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*saga.Execution, error)

	// GetAllRunning retrieves executions still in RUNNING status.
	// Used by the recovery pass after a process restart.
	GetAllRunning(ctx context.Context) ([]*saga.Execution, error)
}
