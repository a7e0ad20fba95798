// Package messaging publishes order events to RabbitMQ or Kafka.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

// ServiceName identifies the publisher in every message.
const ServiceName = "order-management"

// Message is the JSON body of every order event.
type Message struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
}

type OrderUpdatedData struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderCancelledData struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

type InventoryAdjustment struct {
	MenuItemID      string  `json:"menu_item_id"`
	InventoryItemID string  `json:"inventory_item_id"`
	Adjustment      float64 `json:"adjustment"`
}

type InventoryFailure struct {
	MenuItemID      string `json:"menu_item_id"`
	InventoryItemID string `json:"inventory_item_id,omitempty"`
	Reason          string `json:"reason"`
}

type InventoryUpdateData struct {
	OrderID     string                `json:"order_id"`
	OrderNumber string                `json:"order_number"`
	Adjustments []InventoryAdjustment `json:"adjustments"`
	Failures    []InventoryFailure    `json:"failures"`
}

// BillingRequestData is consumed by the billing service.
type BillingRequestData struct {
	OrderID      string          `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	TableNumber  *int            `json:"table_number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
}

// Encode builds the message for a domain event.
func Encode(event domain.Event) (Message, error) {
	var data any
	switch e := event.(type) {
	case domain.OrderCreated:
		data = mapper.FromDomainOrder(e.Order)
	case domain.OrderUpdated:
		data = OrderUpdatedData{
			OrderID:     e.Order.ID.String(),
			OrderNumber: e.Order.OrderNumber,
			OldStatus:   string(e.OldStatus),
			NewStatus:   string(e.NewStatus),
			Status:      string(e.Order.Status),
			UpdatedAt:   e.Order.UpdatedAt,
		}
	case domain.OrderCancelled:
		data = OrderCancelledData{
			OrderID:     e.Order.ID.String(),
			OrderNumber: e.Order.OrderNumber,
			Reason:      e.Reason,
		}
	case domain.InventoryUpdated:
		data = inventoryData(e.Reduction)
	case domain.BillingRequested:
		data = BillingRequestData{
			OrderID:      e.Order.ID.String(),
			OrderNumber:  e.Order.OrderNumber,
			TableNumber:  e.Order.TableNumber,
			CustomerName: e.Order.CustomerName,
			Total:        e.Order.Total,
		}
	default:
		return Message{}, fmt.Errorf("unsupported event %T", event)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	ts := event.OccurredAt()
	if ts.IsZero() {
		ts = time.Now()
	}
	return Message{
		ID:        uuid.NewString(),
		Type:      event.EventName(),
		Data:      raw,
		Timestamp: ts.UTC(),
		Service:   ServiceName,
	}, nil
}

func inventoryData(r domain.InventoryReduction) InventoryUpdateData {
	out := InventoryUpdateData{
		OrderID:     r.OrderID.String(),
		OrderNumber: r.OrderNumber,
		Adjustments: make([]InventoryAdjustment, 0, len(r.Adjustments)),
		Failures:    make([]InventoryFailure, 0, len(r.Failures)),
	}
	for _, a := range r.Adjustments {
		out.Adjustments = append(out.Adjustments, InventoryAdjustment{
			MenuItemID:      a.MenuItemID.String(),
			InventoryItemID: a.InventoryItemID.String(),
			Adjustment:      a.Adjustment,
		})
	}
	for _, f := range r.Failures {
		failure := InventoryFailure{MenuItemID: f.MenuItemID.String(), Reason: f.Reason}
		if f.InventoryItemID != uuid.Nil {
			failure.InventoryItemID = f.InventoryItemID.String()
		}
		out.Failures = append(out.Failures, failure)
	}
	return out
}
