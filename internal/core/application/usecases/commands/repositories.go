// Package commands contains business operations that modify system state.
// All commands follow a consistent pattern: validation, transaction
// management, and persistence.
package commands

import (
	"context"

	"swiftlogistics/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DriverRepoFactory provides access to the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// RouteRepoFactory provides access to the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// SagaRepoFactory provides access to the saga execution repository within a transaction.
	SagaRepoFactory interface {
		SagaExecutionRepository() ports.SagaExecutionRepository
	}

	// SagaUoW manages transactions for saga orchestration: the order being
	// processed plus its durable step log.
	SagaUoW interface {
		TxManager
		OrderRepoFactory
		SagaRepoFactory
	}

	// SagaUoWFactory creates new saga unit of work instances.
	SagaUoWFactory interface {
		Create() SagaUoW
	}

	// AssignmentUoW manages transactions for delivery assignment, which
	// reads drivers and transitions orders while creating routes.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		RouteRepoFactory
	}

	// AssignmentUoWFactory creates new assignment unit of work instances.
	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// DeliveryUoW manages transactions for in-flight delivery operations:
	// route activation, point completion, order and driver updates.
	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		RouteRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}
)
