package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/memory"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/application"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
	ordermessaging "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/messaging"
)

type stubOrders struct {
	orders map[uuid.UUID]ports.OrderSnapshot
	err    error
}

func (s *stubOrders) GetOrder(_ context.Context, id uuid.UUID) (ports.OrderSnapshot, error) {
	if s.err != nil {
		return ports.OrderSnapshot{}, s.err
	}
	o, ok := s.orders[id]
	if !ok {
		return ports.OrderSnapshot{}, ports.ErrOrderNotFound
	}
	return o, nil
}

type recordingAck struct {
	acks, nacks, requeues int
}

func (r *recordingAck) Ack(uint64, bool) error { r.acks++; return nil }
func (r *recordingAck) Nack(_ uint64, _ bool, requeue bool) error {
	r.nacks++
	if requeue {
		r.requeues++
	}
	return nil
}
func (r *recordingAck) Reject(uint64, bool) error { return nil }

func delivery(t *testing.T, ack amqp.Acknowledger, id string, orderID string) amqp.Delivery {
	t.Helper()
	data, err := json.Marshal(ordermessaging.BillingRequestData{OrderID: orderID, OrderNumber: "ORD-1"})
	require.NoError(t, err)
	body, err := json.Marshal(ordermessaging.Message{ID: id, Type: Queue, Data: data, Timestamp: time.Now(), Service: ordermessaging.ServiceName})
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, MessageId: id, Body: body}
}

func newFixture(orders *stubOrders) (*Consumer, *memory.Repository) {
	repo := memory.NewRepository()
	svc := application.NewService(repo, orders)
	return NewConsumer(svc, memory.NewDeliveryLedger(time.Hour)), repo
}

func servedOrder() ports.OrderSnapshot {
	return ports.OrderSnapshot{
		ID:          uuid.New(),
		OrderNumber: "ORD-20240101-0001",
		Status:      "served",
		Subtotal:    decimal.RequireFromString("30"),
		Tax:         decimal.RequireFromString("2.40"),
	}
}

func TestConsumer_CreatesBillOnce(t *testing.T) {
	order := servedOrder()
	consumer, repo := newFixture(&stubOrders{orders: map[uuid.UUID]ports.OrderSnapshot{order.ID: order}})
	ctx := context.Background()

	require.NoError(t, consumer.Handle(ctx, delivery(t, nil, "m-1", order.ID.String())))
	require.NoError(t, consumer.Handle(ctx, delivery(t, nil, "m-1", order.ID.String())))
	require.NoError(t, consumer.Handle(ctx, delivery(t, nil, "m-2", order.ID.String())))

	bills, err := repo.List(ctx, ports.BillFilter{})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.True(t, bills[0].TotalAmount.Equal(decimal.RequireFromString("32.40")))
}

func TestConsumer_Settlement(t *testing.T) {
	order := servedOrder()
	ack := &recordingAck{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- delivery(t, ack, "ok", order.ID.String())
	deliveries <- amqp.Delivery{Acknowledger: ack, Body: []byte("not json")}
	deliveries <- delivery(t, ack, "unknown", uuid.NewString())
	close(deliveries)

	consumer, _ := newFixture(&stubOrders{orders: map[uuid.UUID]ports.OrderSnapshot{order.ID: order}})
	consumer.Run(context.Background(), deliveries)

	assert.Equal(t, 1, ack.acks)
	assert.Equal(t, 2, ack.nacks)
	assert.Equal(t, 0, ack.requeues)
}

func TestConsumer_OutageIsRetriedAndReleased(t *testing.T) {
	orders := &stubOrders{err: errors.New("connection refused")}
	consumer, repo := newFixture(orders)
	ctx := context.Background()
	order := servedOrder()

	err := consumer.Handle(ctx, delivery(t, nil, "m-9", order.ID.String()))
	require.ErrorIs(t, err, ErrRetry)

	orders.err = nil
	orders.orders = map[uuid.UUID]ports.OrderSnapshot{order.ID: order}
	require.NoError(t, consumer.Handle(ctx, delivery(t, nil, "m-9", order.ID.String())))

	_, err = repo.GetByOrderID(ctx, order.ID)
	assert.NoError(t, err)
}
