package domain

import (
	"time"

	"github.com/google/uuid"
)

// Queue names double as event type identifiers.
const (
	EventOrderCreated    = "order_created"
	EventOrderUpdated    = "order_updated"
	EventOrderCancelled  = "order_cancelled"
	EventInventoryUpdate = "inventory_update"
	EventBillingRequest  = "billing_request"
)

// Queues lists every queue order events are published to.
var Queues = []string{
	EventOrderCreated,
	EventOrderUpdated,
	EventOrderCancelled,
	EventInventoryUpdate,
	EventBillingRequest,
}

// Event is the base interface for order events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderCreated is raised after a new order is stored.
type OrderCreated struct {
	BaseEvent
	Order *Order
}

func (e OrderCreated) EventName() string      { return EventOrderCreated }
func (e OrderCreated) AggregateID() uuid.UUID { return e.Order.ID }

// OrderUpdated is raised when an order changes, carrying the status move if any.
type OrderUpdated struct {
	BaseEvent
	Order     *Order
	OldStatus Status
	NewStatus Status
}

func (e OrderUpdated) EventName() string      { return EventOrderUpdated }
func (e OrderUpdated) AggregateID() uuid.UUID { return e.Order.ID }

// OrderCancelled is raised when an order is cancelled.
type OrderCancelled struct {
	BaseEvent
	Order  *Order
	Reason string
}

func (e OrderCancelled) EventName() string      { return EventOrderCancelled }
func (e OrderCancelled) AggregateID() uuid.UUID { return e.Order.ID }

// InventoryUpdated is raised after stock was consumed for a confirmed order.
type InventoryUpdated struct {
	BaseEvent
	Reduction InventoryReduction
}

func (e InventoryUpdated) EventName() string      { return EventInventoryUpdate }
func (e InventoryUpdated) AggregateID() uuid.UUID { return e.Reduction.OrderID }

// BillingRequested is raised when a served order is ready to be billed.
type BillingRequested struct {
	BaseEvent
	Order *Order
}

func (e BillingRequested) EventName() string      { return EventBillingRequest }
func (e BillingRequested) AggregateID() uuid.UUID { return e.Order.ID }
