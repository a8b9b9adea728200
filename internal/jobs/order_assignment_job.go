package jobs

import (
	"context"
	"log/slog"

	"swiftlogistics/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OrderAssignmentJob manages the scheduled assignment of warehouse orders
// to active drivers. Runs every 30 seconds so orders never wait long for a
// manual assignment trigger.
type OrderAssignmentJob struct {
	handler commands.AssignOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOrderAssignmentJob creates a new job for assigning orders.
// Uses AssignOrdersCommandHandler to run assignment passes periodically.
func NewOrderAssignmentJob(handler commands.AssignOrdersCommandHandler, logger *slog.Logger) *OrderAssignmentJob {
	return &OrderAssignmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "order_assignment_job"),
	}
}

// Start begins the assignment job.
func (j *OrderAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAssignOrdersCommand()

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Order assignment job failed", "error", err)
			return
		}

		// Empty passes are the steady state; only log when work happened.
		if result.AssignedOrders > 0 {
			j.logger.InfoContext(ctx, "Order assignment pass completed",
				"assignedOrders", result.AssignedOrders,
				"remainingOrders", result.RemainingOrders,
				"drivers", len(result.Assignments))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order assignment job started (running every 30 seconds)")
	return nil
}

// Stop stops the assignment job.
func (j *OrderAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order assignment job stopped")
}
