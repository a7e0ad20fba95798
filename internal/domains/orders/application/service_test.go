package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/memory"
	ordertypes "github.com/Apurer/restaurant-ops/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

type adjustment struct {
	id    uuid.UUID
	delta float64
}

type fakeCatalog struct {
	items           map[uuid.UUID]ports.MenuItemInfo
	availability    []domain.ItemAvailability
	availabilityErr error
	ingredients     map[uuid.UUID][]ports.IngredientRequirement
	adjustErr       map[uuid.UUID]error
	adjustments     []adjustment
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		items:       map[uuid.UUID]ports.MenuItemInfo{},
		ingredients: map[uuid.UUID][]ports.IngredientRequirement{},
		adjustErr:   map[uuid.UUID]error{},
	}
}

func (c *fakeCatalog) GetMenuItem(_ context.Context, id uuid.UUID) (ports.MenuItemInfo, error) {
	info, ok := c.items[id]
	if !ok {
		return ports.MenuItemInfo{}, ports.ErrMenuItemNotFound
	}
	return info, nil
}

func (c *fakeCatalog) CheckAvailability(_ context.Context, _ []uuid.UUID) ([]domain.ItemAvailability, error) {
	if c.availabilityErr != nil {
		return nil, c.availabilityErr
	}
	if c.availability != nil {
		return c.availability, nil
	}
	out := []domain.ItemAvailability{}
	for id := range c.items {
		out = append(out, domain.ItemAvailability{MenuItemID: id, CanPrepare: true})
	}
	return out, nil
}

func (c *fakeCatalog) ListIngredients(_ context.Context, id uuid.UUID) ([]ports.IngredientRequirement, error) {
	return c.ingredients[id], nil
}

func (c *fakeCatalog) AdjustInventory(_ context.Context, id uuid.UUID, delta float64) error {
	if err := c.adjustErr[id]; err != nil {
		return err
	}
	c.adjustments = append(c.adjustments, adjustment{id: id, delta: delta})
	return nil
}

func (c *fakeCatalog) dish(name, price string, prep int) uuid.UUID {
	id := uuid.New()
	c.items[id] = ports.MenuItemInfo{ID: id, Name: name, Price: decimal.RequireFromString(price), IsAvailable: true, PreparationTime: prep}
	return id
}

type harness struct {
	svc     *Service
	catalog *fakeCatalog
	events  *ordermemory.EventRecorder
}

func newHarness() harness {
	catalog := newFakeCatalog()
	events := ordermemory.NewEventRecorder()
	svc := NewService(ordermemory.NewRepository(), catalog, WithPublisher(events))
	return harness{svc: svc, catalog: catalog, events: events}
}

func table(n int) *int { return &n }

func (h harness) place(t *testing.T, lines ...ordertypes.OrderLineInput) *domain.Order {
	t.Helper()
	order, err := h.svc.CreateOrder(context.Background(), ordertypes.CreateOrderInput{
		TableNumber: table(4),
		WaiterID:    "w-1",
		WaiterName:  "Ana",
		Items:       lines,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder_ComputesTotals(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "12.50", 20)
	soda := h.catalog.dish("Soda", "3.00", 2)

	order := h.place(t,
		ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 2},
		ordertypes.OrderLineInput{MenuItemID: soda, Quantity: 1},
	)

	require.Equal(t, domain.StatusPending, order.Status)
	require.Regexp(t, `^ORD-\d{8}-\d{4}$`, order.OrderNumber)
	require.Equal(t, domain.TypeDineIn, order.OrderType)
	require.True(t, order.Subtotal.Equal(decimal.RequireFromString("28.00")))
	require.True(t, order.Tax.Equal(decimal.RequireFromString("2.80")))
	require.True(t, order.Total.Equal(decimal.RequireFromString("30.80")))
	require.Equal(t, 20, order.EstimatedPreparationTime)
	require.Equal(t, []string{domain.EventOrderCreated}, h.events.Names())
}

func TestCreateOrder_UnknownMenuItem(t *testing.T) {
	h := newHarness()
	missing := uuid.New()

	_, err := h.svc.CreateOrder(context.Background(), ordertypes.CreateOrderInput{
		TableNumber: table(1),
		Items:       []ordertypes.OrderLineInput{{MenuItemID: missing, Quantity: 1}},
	})

	var unavailable *MenuItemUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, missing, unavailable.MenuItemID)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrder_DineInNeedsTable(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)

	_, err := h.svc.CreateOrder(context.Background(), ordertypes.CreateOrderInput{
		Items: []ordertypes.OrderLineInput{{MenuItemID: pizza, Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrTableRequired)

	order, err := h.svc.CreateOrder(context.Background(), ordertypes.CreateOrderInput{
		OrderType: "takeaway",
		Items:     []ordertypes.OrderLineInput{{MenuItemID: pizza, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Nil(t, order.TableNumber)
}

func TestCreateOrder_InsufficientInventoryForQuantity(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	h.catalog.availability = []domain.ItemAvailability{{
		MenuItemID: pizza,
		CanPrepare: true,
		RequiredIngredients: []domain.IngredientStock{
			{Name: "Dough", RequiredQuantity: 1, AvailableQuantity: 2},
		},
	}}

	_, err := h.svc.CreateOrder(context.Background(), ordertypes.CreateOrderInput{
		TableNumber: table(2),
		Items:       []ordertypes.OrderLineInput{{MenuItemID: pizza, Quantity: 3}},
	})

	var insufficient *InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	require.ErrorIs(t, err, ErrInsufficientInventory)
	require.Len(t, insufficient.Items, 1)
	require.Equal(t, "Pizza", insufficient.Items[0].MenuItemName)
	require.Contains(t, insufficient.Items[0].Reason, "Dough")
	require.Empty(t, h.events.Names())
}

func TestCreateOrder_AvailabilityOutageDoesNotBlock(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	h.catalog.availabilityErr = errors.New("menu service down")

	order := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	require.Equal(t, domain.StatusPending, order.Status)
}

func TestUpdateStatus_ConfirmReducesInventory(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	flour, cheese, broken := uuid.New(), uuid.New(), uuid.New()
	h.catalog.ingredients[pizza] = []ports.IngredientRequirement{
		{InventoryItemID: flour, Name: "Flour", Quantity: 0.25},
		{InventoryItemID: broken, Name: "Basil", Quantity: 1},
		{InventoryItemID: cheese, Name: "Cheese", Quantity: 0.1},
	}
	h.catalog.adjustErr[broken] = errors.New("cannot reduce stock below zero")
	order := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 2})

	confirmed, err := h.svc.UpdateStatus(context.Background(), order.ID, "confirmed")
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	require.Equal(t, []adjustment{{id: flour, delta: -0.5}, {id: cheese, delta: -0.2}}, h.catalog.adjustments)
	require.Equal(t, []string{
		domain.EventOrderCreated,
		domain.EventOrderUpdated,
		domain.EventInventoryUpdate,
	}, h.events.Names())

	_, err = h.svc.UpdateStatus(context.Background(), order.ID, "preparing")
	require.NoError(t, err)
	require.Len(t, h.catalog.adjustments, 2)
}

func TestUpdateStatus_Rules(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	order := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	ctx := context.Background()

	_, err := h.svc.UpdateStatus(ctx, order.ID, "baking")
	require.ErrorIs(t, err, ErrInvalidInput)

	ready, err := h.svc.UpdateStatus(ctx, order.ID, "ready")
	require.NoError(t, err)
	require.NotNil(t, ready.ConfirmedAt)
	require.NotNil(t, ready.ReadyAt)

	_, err = h.svc.UpdateStatus(ctx, order.ID, "preparing")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	served, err := h.svc.UpdateStatus(ctx, order.ID, "served")
	require.NoError(t, err)
	require.NotNil(t, served.ServedAt)
	require.Contains(t, h.events.Names(), domain.EventBillingRequest)

	_, err = h.svc.UpdateStatus(ctx, order.ID, "cancelled")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_ServedOrderDoesNotBillTwice(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	order := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	ctx := context.Background()

	_, err := h.svc.UpdateStatus(ctx, order.ID, "served")
	require.NoError(t, err)
	after := h.events.Names()

	for i := 0; i < 2; i++ {
		_, err = h.svc.UpdateStatus(ctx, order.ID, "served")
		require.ErrorIs(t, err, ErrInvalidInput)
	}
	require.Equal(t, after, h.events.Names())
	require.Equal(t, []string{
		domain.EventOrderCreated, domain.EventOrderUpdated, domain.EventInventoryUpdate, domain.EventBillingRequest,
	}, after)

	cancelled := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	_, err = h.svc.CancelOrder(ctx, cancelled.ID, "guest left")
	require.NoError(t, err)
	_, err = h.svc.UpdateStatus(ctx, cancelled.ID, "cancelled")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelOrder(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	order := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	ctx := context.Background()

	cancelled, err := h.svc.CancelOrder(ctx, order.ID, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.Equal(t, "Cancelled: No reason provided", cancelled.Notes)
	require.NotNil(t, cancelled.CancelledAt)
	for _, item := range cancelled.Items {
		require.Equal(t, domain.ItemCancelled, item.Status)
	}

	_, err = h.svc.CancelOrder(ctx, order.ID, "again")
	var cancelErr *domain.CancelError
	require.ErrorAs(t, err, &cancelErr)
	require.Equal(t, domain.StatusCancelled, cancelErr.Status)
}

func TestUpdateItemStatus_PromotesOrder(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	soda := h.catalog.dish("Soda", "2", 1)
	order := h.place(t,
		ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1},
		ordertypes.OrderLineInput{MenuItemID: soda, Quantity: 1},
	)
	ctx := context.Background()
	_, err := h.svc.UpdateStatus(ctx, order.ID, "preparing")
	require.NoError(t, err)

	updated, err := h.svc.UpdateItemStatus(ctx, order.ID, order.Items[0].ID, "ready")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPreparing, updated.Status)

	updated, err = h.svc.UpdateItemStatus(ctx, order.ID, order.Items[1].ID, "ready")
	require.NoError(t, err)
	require.Equal(t, domain.StatusReady, updated.Status)
	require.NotNil(t, updated.ReadyAt)

	_, err = h.svc.UpdateItemStatus(ctx, order.ID, uuid.New(), "ready")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestKitchenQueue_OldestFirst(t *testing.T) {
	h := newHarness()
	pizza := h.catalog.dish("Pizza", "10", 10)
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h.svc.now = func() time.Time { return clock }
	ctx := context.Background()

	first := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	clock = clock.Add(time.Minute)
	second := h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})
	clock = clock.Add(time.Minute)
	h.place(t, ordertypes.OrderLineInput{MenuItemID: pizza, Quantity: 1})

	_, err := h.svc.UpdateStatus(ctx, second.ID, "preparing")
	require.NoError(t, err)
	_, err = h.svc.UpdateStatus(ctx, first.ID, "confirmed")
	require.NoError(t, err)

	queue, err := h.svc.KitchenQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	require.Equal(t, first.ID, queue[0].ID)
	require.Equal(t, second.ID, queue[1].ID)
}
