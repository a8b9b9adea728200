package ports

import (
	"context"
	"time"

	"swiftlogistics/internal/core/domain/model/order"
)

// ManualInterventionReport carries everything an operator needs when a
// saga rollback failed: the step that broke, the original forward
// failure, and the compensation failure.
type ManualInterventionReport struct {
	OrderID           string
	OrderNumber       string
	FailedStep        string
	OriginalError     string
	CompensationError string
	OccurredAt        time.Time
}

// NotificationPublisher is the fire-and-forget pub/sub contract. Publish
// failures are logged by callers, never retried and never propagated into
// business outcomes.
type NotificationPublisher interface {
	// PublishOrderStatusChanged announces an order's new status.
	PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error

	// PublishDeliveryCompleted announces a confirmed delivery.
	PublishDeliveryCompleted(ctx context.Context, driverID string, orderNumber string, completedAt time.Time) error

	// PublishManualIntervention routes a failed compensation to the
	// manual-review channel.
	PublishManualIntervention(ctx context.Context, report ManualInterventionReport) error
}
