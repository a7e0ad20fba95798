package types

import "github.com/google/uuid"

// OrderLineInput is one requested menu item.
type OrderLineInput struct {
	MenuItemID          uuid.UUID
	Quantity            int
	SpecialInstructions string
}

// CreateOrderInput carries a new order.
type CreateOrderInput struct {
	TableNumber   *int
	CustomerName  string
	CustomerPhone string
	OrderType     string
	WaiterID      string
	WaiterName    string
	Notes         string
	Items         []OrderLineInput
}

// UpdateOrderInput is a partial update; nil fields are left untouched.
type UpdateOrderInput struct {
	Status        *string
	CustomerName  *string
	CustomerPhone *string
	Notes         *string
}
