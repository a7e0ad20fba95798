package mapper

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

// OrderLineRequest is one requested menu item.
type OrderLineRequest struct {
	MenuItemID          string `json:"menu_item_id" binding:"required,uuid"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"special_instructions" binding:"max=500"`
}

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	TableNumber   *int               `json:"table_number" binding:"omitempty,min=1,max=100"`
	CustomerName  string             `json:"customer_name" binding:"max=100"`
	CustomerPhone string             `json:"customer_phone" binding:"max=20"`
	OrderType     string             `json:"order_type" binding:"omitempty,oneof=dine-in takeaway delivery"`
	WaiterID      string             `json:"waiter_id" binding:"required"`
	WaiterName    string             `json:"waiter_name" binding:"required"`
	Notes         string             `json:"notes"`
	Items         []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest is the body of PUT /api/orders/:id.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	CustomerName  *string `json:"customer_name" binding:"omitempty,max=100"`
	CustomerPhone *string `json:"customer_phone" binding:"omitempty,max=20"`
	Notes         *string `json:"notes"`
}

// StatusRequest carries a target status for an order or an order line.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelRequest carries an optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderItem is the HTTP representation of an order line.
type OrderItem struct {
	ID                  string          `json:"id"`
	MenuItemID          string          `json:"menu_item_id"`
	MenuItemName        string          `json:"menu_item_name"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	Status              string          `json:"status"`
	SpecialInstructions string          `json:"special_instructions"`
	PreparationTime     int             `json:"preparation_time"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID                       string          `json:"id"`
	OrderNumber              string          `json:"order_number"`
	TableNumber              *int            `json:"table_number"`
	CustomerName             string          `json:"customer_name"`
	CustomerPhone            string          `json:"customer_phone"`
	OrderType                string          `json:"order_type"`
	WaiterID                 string          `json:"waiter_id"`
	WaiterName               string          `json:"waiter_name"`
	Status                   string          `json:"status"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	Tax                      decimal.Decimal `json:"tax"`
	Total                    decimal.Decimal `json:"total"`
	Notes                    string          `json:"notes"`
	EstimatedPreparationTime int             `json:"estimated_preparation_time"`
	OrderDate                time.Time       `json:"order_date"`
	ConfirmedAt              *time.Time      `json:"confirmed_at"`
	ReadyAt                  *time.Time      `json:"ready_at"`
	ServedAt                 *time.Time      `json:"served_at"`
	CancelledAt              *time.Time      `json:"cancelled_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	Items                    []OrderItem     `json:"items"`
}

// UnavailableItem explains why an order line cannot be prepared.
type UnavailableItem struct {
	MenuItemName string `json:"menu_item_name"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason"`
}

// ToCreateInput converts the request. Line ids were validated by binding.
func ToCreateInput(req CreateOrderRequest) types.CreateOrderInput {
	input := types.CreateOrderInput{
		TableNumber:   req.TableNumber,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		OrderType:     req.OrderType,
		WaiterID:      req.WaiterID,
		WaiterName:    req.WaiterName,
		Notes:         req.Notes,
		Items:         make([]types.OrderLineInput, 0, len(req.Items)),
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, types.OrderLineInput{
			MenuItemID:          uuid.MustParse(line.MenuItemID),
			Quantity:            line.Quantity,
			SpecialInstructions: line.SpecialInstructions,
		})
	}
	return input
}

func ToUpdateInput(req UpdateOrderRequest) types.UpdateOrderInput {
	return types.UpdateOrderInput{
		Status:        req.Status,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}
}

// FromDomainOrder converts an order for responses and event payloads.
func FromDomainOrder(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	out := Order{
		ID:                       o.ID.String(),
		OrderNumber:              o.OrderNumber,
		TableNumber:              o.TableNumber,
		CustomerName:             o.CustomerName,
		CustomerPhone:            o.CustomerPhone,
		OrderType:                string(o.OrderType),
		WaiterID:                 o.WaiterID,
		WaiterName:               o.WaiterName,
		Status:                   string(o.Status),
		Subtotal:                 o.Subtotal,
		Tax:                      o.Tax,
		Total:                    o.Total,
		Notes:                    o.Notes,
		EstimatedPreparationTime: o.EstimatedPreparationTime,
		OrderDate:                o.OrderDate,
		ConfirmedAt:              o.ConfirmedAt,
		ReadyAt:                  o.ReadyAt,
		ServedAt:                 o.ServedAt,
		CancelledAt:              o.CancelledAt,
		UpdatedAt:                o.UpdatedAt,
		Items:                    make([]OrderItem, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		out.Items = append(out.Items, OrderItem{
			ID:                  item.ID.String(),
			MenuItemID:          item.MenuItemID.String(),
			MenuItemName:        item.MenuItemName,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			Status:              string(item.Status),
			SpecialInstructions: item.SpecialInstructions,
			PreparationTime:     item.PreparationTime,
		})
	}
	return out
}

func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomainOrder(o))
	}
	return out
}

func FromUnavailable(items []domain.UnavailableItem) []UnavailableItem {
	out := make([]UnavailableItem, 0, len(items))
	for _, item := range items {
		out = append(out, UnavailableItem(item))
	}
	return out
}
