// Package rabbit implements the NotificationPublisher port on RabbitMQ.
// Events go to a single durable topic exchange; consumers bind on routing
// keys like "order.status.delivered" or "saga.manual-intervention".
package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/ports"
	"swiftlogistics/internal/pkg/errs"
)

// Exchange is the topic exchange all delivery events are published to.
const Exchange = "swift.logistics.topic"

const (
	routingKeyOrderStatus        = "order.status."
	routingKeyDeliveryCompleted  = "delivery.completed"
	routingKeyManualIntervention = "saga.manual-intervention"
)

var _ ports.NotificationPublisher = &Publisher{}

// channelProvider is the slice of *amqp.Channel the publisher uses.
type channelProvider interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

// Publisher sends order and delivery events to RabbitMQ. Publishing is
// fire-and-forget from the core's point of view; callers log failures and
// move on.
type Publisher struct {
	channel channelProvider
	log     *slog.Logger
}

// NewPublisher creates a Publisher over an open AMQP channel and declares
// the topic exchange.
func NewPublisher(channel channelProvider, logger *slog.Logger) (*Publisher, error) {
	if channel == nil {
		return nil, errs.NewValueIsRequiredError("channel")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	err := channel.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}

	return &Publisher{
		channel: channel,
		log:     logger.With("component", "rabbit-publisher"),
	}, nil
}

type orderStatusEvent struct {
	OrderID     string     `json:"orderId"`
	OrderNumber string     `json:"orderNumber"`
	Status      string     `json:"status"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// PublishOrderStatusChanged announces the order's current status. The
// routing key carries the lowercased status so consumers can bind on
// specific transitions.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	event := orderStatusEvent{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		Status:      aggregate.Status().String(),
		DeliveredAt: aggregate.DeliveredAt(),
		OccurredAt:  time.Now().UTC(),
	}

	key := routingKeyOrderStatus + strings.ToLower(aggregate.Status().String())
	return p.publish(ctx, key, event)
}

type deliveryCompletedEvent struct {
	DriverID    string    `json:"driverId"`
	OrderNumber string    `json:"orderNumber"`
	CompletedAt time.Time `json:"completedAt"`
}

// PublishDeliveryCompleted announces a confirmed delivery.
func (p *Publisher) PublishDeliveryCompleted(
	ctx context.Context,
	driverID string,
	orderNumber string,
	completedAt time.Time,
) error {
	event := deliveryCompletedEvent{
		DriverID:    driverID,
		OrderNumber: orderNumber,
		CompletedAt: completedAt,
	}
	return p.publish(ctx, routingKeyDeliveryCompleted, event)
}

type manualInterventionEvent struct {
	OrderID           string    `json:"orderId"`
	OrderNumber       string    `json:"orderNumber"`
	FailedStep        string    `json:"failedStep"`
	OriginalError     string    `json:"originalError"`
	CompensationError string    `json:"compensationError"`
	OccurredAt        time.Time `json:"occurredAt"`
}

// PublishManualIntervention routes a failed compensation to the
// manual-review channel.
func (p *Publisher) PublishManualIntervention(ctx context.Context, report ports.ManualInterventionReport) error {
	event := manualInterventionEvent{
		OrderID:           report.OrderID,
		OrderNumber:       report.OrderNumber,
		FailedStep:        report.FailedStep,
		OriginalError:     report.OriginalError,
		CompensationError: report.CompensationError,
		OccurredAt:        report.OccurredAt,
	}
	return p.publish(ctx, routingKeyManualIntervention, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, Exchange, routingKey, false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.DebugContext(ctx, "event published", "routingKey", routingKey, "size", len(body))
	return nil
}
