package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ops/internal/shared/money"
	"github.com/Apurer/restaurant-ops/internal/shared/reference"
)

// Status tracks an order through the kitchen.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

// ItemStatus tracks a single order line.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
	ItemCancelled ItemStatus = "cancelled"
)

// OrderType says where the food goes.
type OrderType string

const (
	TypeDineIn   OrderType = "dine-in"
	TypeTakeaway OrderType = "takeaway"
	TypeDelivery OrderType = "delivery"
)

const (
	NumberPrefix        = "ORD"
	MaxTableNumber      = 100
	maxCustomerNameSize = 100
)

// TaxRate is applied to the subtotal of every order.
var TaxRate = decimal.RequireFromString("0.10")

var (
	ErrNoItems            = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("item quantity must be at least 1")
	ErrTableRequired      = errors.New("table number is required for dine-in orders")
	ErrInvalidTable       = errors.New("table number must be between 1 and 100")
	ErrInvalidOrderType   = errors.New("order type must be one of dine-in, takeaway, delivery")
	ErrCustomerNameLength = errors.New("customer name must be at most 100 characters")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidItemStatus  = errors.New("invalid item status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotCancellable     = errors.New("order cannot be cancelled")
	ErrItemNotFound       = errors.New("order item not found")
)

// CancelError reports an attempt to cancel a finished order.
type CancelError struct {
	Status Status
}

func (e *CancelError) Error() string {
	return "cannot cancel order with status: " + string(e.Status)
}

func (e *CancelError) Is(target error) bool {
	return target == ErrNotCancellable
}

var statusRank = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusServed:    4,
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if _, ok := statusRank[s]; ok || s == StatusCancelled {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// ParseItemStatus validates a raw item status value.
func ParseItemStatus(raw string) (ItemStatus, error) {
	switch s := ItemStatus(strings.TrimSpace(raw)); s {
	case ItemPending, ItemPreparing, ItemReady, ItemServed, ItemCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidItemStatus, raw)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// CanTransitionTo allows forward moves, skipping included, and cancellation of any live order.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, okFrom := statusRank[s]
	to, okTo := statusRank[next]
	return okFrom && okTo && to > from
}

// Item is one line of an order.
type Item struct {
	ID                  uuid.UUID
	MenuItemID          uuid.UUID
	MenuItemName        string
	Quantity            int
	UnitPrice           decimal.Decimal
	TotalPrice          decimal.Decimal
	Status              ItemStatus
	SpecialInstructions string
	PreparationTime     int
}

// Order is a guest order and its lines.
type Order struct {
	ID                       uuid.UUID
	OrderNumber              string
	TableNumber              *int
	CustomerName             string
	CustomerPhone            string
	OrderType                OrderType
	WaiterID                 string
	WaiterName               string
	Status                   Status
	Subtotal                 decimal.Decimal
	Tax                      decimal.Decimal
	Total                    decimal.Decimal
	Notes                    string
	EstimatedPreparationTime int
	OrderDate                time.Time
	ConfirmedAt              *time.Time
	ReadyAt                  *time.Time
	ServedAt                 *time.Time
	CancelledAt              *time.Time
	Items                    []Item
	UpdatedAt                time.Time
}

// NewItem prices an order line from the menu.
func NewItem(menuItemID uuid.UUID, name string, quantity int, unitPrice decimal.Decimal, prepTime int, instructions string) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		ID:                  uuid.New(),
		MenuItemID:          menuItemID,
		MenuItemName:        name,
		Quantity:            quantity,
		UnitPrice:           unitPrice,
		TotalPrice:          money.Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity)))),
		Status:              ItemPending,
		SpecialInstructions: instructions,
		PreparationTime:     prepTime,
	}, nil
}

// NewOrder builds a pending order with a fresh number and computed totals.
func NewOrder(orderType OrderType, table *int, items []Item, now time.Time) (*Order, error) {
	if orderType == "" {
		orderType = TypeDineIn
	}
	o := &Order{
		ID:          uuid.New(),
		OrderNumber: reference.New(NumberPrefix, now),
		TableNumber: table,
		OrderType:   orderType,
		Status:      StatusPending,
		OrderDate:   now.UTC(),
		Items:       append([]Item{}, items...),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.Recalculate()
	return o, nil
}

// Validate enforces order invariants.
func (o *Order) Validate() error {
	switch o.OrderType {
	case TypeDineIn, TypeTakeaway, TypeDelivery:
	default:
		return ErrInvalidOrderType
	}
	if o.OrderType == TypeDineIn && o.TableNumber == nil {
		return ErrTableRequired
	}
	if o.TableNumber != nil && (*o.TableNumber < 1 || *o.TableNumber > MaxTableNumber) {
		return ErrInvalidTable
	}
	if utf8.RuneCountInString(o.CustomerName) > maxCustomerNameSize {
		return ErrCustomerNameLength
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Recalculate derives subtotal, tax, total and the preparation estimate from the lines.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	prep := 0
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
		if item.PreparationTime > prep {
			prep = item.PreparationTime
		}
	}
	o.Subtotal = money.Round(subtotal)
	o.Tax = money.Round(subtotal.Mul(TaxRate))
	o.Total = o.Subtotal.Add(o.Tax)
	o.EstimatedPreparationTime = prep
}

// TransitionTo moves the order to next and stamps the matching timestamp. Restating the
// current status of a live order is a no-op; a finished order accepts no status at all.
func (o *Order) TransitionTo(next Status, now time.Time) error {
	if next == o.Status && !o.Status.IsTerminal() {
		return nil
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	ts := now.UTC()
	if next == StatusCancelled {
		o.CancelledAt = &ts
		for i := range o.Items {
			o.Items[i].Status = ItemCancelled
		}
		o.Status = next
		return nil
	}
	// Skipped steps are stamped too, so ConfirmedAt marks the first move out of pending.
	rank := statusRank[next]
	if rank >= statusRank[StatusConfirmed] && o.ConfirmedAt == nil {
		o.ConfirmedAt = &ts
	}
	if rank >= statusRank[StatusReady] && o.ReadyAt == nil {
		o.ReadyAt = &ts
	}
	if next == StatusServed {
		o.ServedAt = &ts
	}
	o.Status = next
	return nil
}

// Confirmed reports whether the order has left pending for the kitchen.
func (o *Order) Confirmed() bool {
	return o.ConfirmedAt != nil
}

// Cancel cancels every line and records the reason in the notes.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status.IsTerminal() {
		return &CancelError{Status: o.Status}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}
	line := "Cancelled: " + reason
	if o.Notes == "" {
		o.Notes = line
	} else {
		o.Notes = o.Notes + "\n" + line
	}
	return o.TransitionTo(StatusCancelled, now)
}

// UpdateItemStatus changes one line. When every live line is ready while the order is
// preparing, the order itself becomes ready; the returned flag reports that promotion.
func (o *Order) UpdateItemStatus(itemID uuid.UUID, status ItemStatus, now time.Time) (bool, error) {
	idx := -1
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrItemNotFound
	}
	o.Items[idx].Status = status

	if o.Status != StatusPreparing {
		return false, nil
	}
	live := 0
	for _, item := range o.Items {
		if item.Status == ItemCancelled {
			continue
		}
		live++
		if item.Status != ItemReady {
			return false, nil
		}
	}
	if live == 0 {
		return false, nil
	}
	return true, o.TransitionTo(StatusReady, now)
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = append([]Item{}, o.Items...)
	clone.TableNumber = cloneInt(o.TableNumber)
	clone.ConfirmedAt = cloneTime(o.ConfirmedAt)
	clone.ReadyAt = cloneTime(o.ReadyAt)
	clone.ServedAt = cloneTime(o.ServedAt)
	clone.CancelledAt = cloneTime(o.CancelledAt)
	return &clone
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
