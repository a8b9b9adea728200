package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftlogistics/internal/core/domain/model/kernel"
	"swiftlogistics/internal/core/domain/model/order"
	"swiftlogistics/internal/core/ports"
)

type publishedMessage struct {
	Exchange   string
	RoutingKey string
	Msg        amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	durable    bool
	published  []publishedMessage
	publishErr error
}

func (f *fakeChannel) PublishWithContext(
	_ context.Context,
	exchange, key string,
	_, _ bool,
	msg amqp.Publishing,
) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMessage{Exchange: exchange, RoutingKey: key, Msg: msg})
	return nil
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	f.declared = append(f.declared, name+"/"+kind)
	f.durable = durable
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDeliveredOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2001", "12 Duplication Road, Colombo", "K. Silva", "+94-71-7654321")
	require.NoError(t, err)
	require.NoError(t, o.MarkProcessing())
	return o
}

func TestNewPublisher_DeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}

	_, err := NewPublisher(ch, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{Exchange + "/topic"}, ch.declared)
	assert.True(t, ch.durable)
}

func TestPublishOrderStatusChanged_RoutesByStatus(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, discardLogger())
	require.NoError(t, err)

	o := newDeliveredOrder(t)
	require.NoError(t, p.PublishOrderStatusChanged(context.Background(), o))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, Exchange, got.Exchange)
	assert.Equal(t, "order.status.processing", got.RoutingKey)
	assert.Equal(t, "application/json", got.Msg.ContentType)
	assert.EqualValues(t, amqp.Persistent, got.Msg.DeliveryMode)

	var event map[string]any
	require.NoError(t, json.Unmarshal(got.Msg.Body, &event))
	assert.Equal(t, o.OrderNumber(), event["orderNumber"])
	assert.Equal(t, o.Status().String(), event["status"])
}

func TestPublishDeliveryCompleted(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, discardLogger())
	require.NoError(t, err)

	completedAt := time.Date(2026, 4, 2, 11, 30, 0, 0, time.UTC)
	require.NoError(t, p.PublishDeliveryCompleted(context.Background(), "driver-1", "ORD-2001", completedAt))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "delivery.completed", ch.published[0].RoutingKey)

	var event map[string]any
	require.NoError(t, json.Unmarshal(ch.published[0].Msg.Body, &event))
	assert.Equal(t, "driver-1", event["driverId"])
	assert.Equal(t, "ORD-2001", event["orderNumber"])
}

func TestPublishManualIntervention(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, discardLogger())
	require.NoError(t, err)

	report := ports.ManualInterventionReport{
		OrderID:           kernel.NewUUID().String(),
		OrderNumber:       "ORD-2001",
		FailedStep:        "WMS_ADD",
		OriginalError:     "wms unavailable",
		CompensationError: "cms cancel timed out",
		OccurredAt:        time.Now().UTC(),
	}
	require.NoError(t, p.PublishManualIntervention(context.Background(), report))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "saga.manual-intervention", ch.published[0].RoutingKey)

	var event map[string]any
	require.NoError(t, json.Unmarshal(ch.published[0].Msg.Body, &event))
	assert.Equal(t, "WMS_ADD", event["failedStep"])
	assert.Equal(t, "cms cancel timed out", event["compensationError"])
}

func TestPublish_SurfacesChannelError(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := NewPublisher(ch, discardLogger())
	require.NoError(t, err)

	err = p.PublishDeliveryCompleted(context.Background(), "driver-1", "ORD-2001", time.Now())
	assert.ErrorContains(t, err, "channel closed")
}
