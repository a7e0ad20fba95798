package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusServed, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusConfirmed, false},
		{StatusReady, StatusPending, false},
		{StatusReady, StatusCancelled, true},
		{StatusServed, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTransitionTo_FinishedOrdersStayFinished(t *testing.T) {
	now := time.Now()
	for _, status := range []Status{StatusServed, StatusCancelled} {
		order := &Order{Status: status}
		assert.ErrorIs(t, order.TransitionTo(status, now), ErrInvalidTransition, string(status))
	}

	live := &Order{Status: StatusPreparing}
	require.NoError(t, live.TransitionTo(StatusPreparing, now))
	assert.Nil(t, live.ReadyAt)
}

func TestValidate_CustomerNameCountsCharacters(t *testing.T) {
	order := &Order{OrderType: TypeTakeaway, Items: []Item{{Quantity: 1}}}

	order.CustomerName = strings.Repeat("é", maxCustomerNameSize)
	require.NoError(t, order.Validate())

	order.CustomerName = strings.Repeat("é", maxCustomerNameSize+1)
	assert.ErrorIs(t, order.Validate(), ErrCustomerNameLength)
}

func TestCancel_AppendsReason(t *testing.T) {
	order := &Order{Status: StatusConfirmed, Notes: "no onions", Items: []Item{{Status: ItemPreparing}}}

	require.NoError(t, order.Cancel("guest left", time.Now()))

	assert.Equal(t, "no onions\nCancelled: guest left", order.Notes)
	assert.Equal(t, ItemCancelled, order.Items[0].Status)
}

func TestUpdateItemStatus_IgnoresCancelledLines(t *testing.T) {
	ready, dropped := uuid.New(), uuid.New()
	order := &Order{
		Status: StatusPreparing,
		Items: []Item{
			{ID: ready, Status: ItemPreparing},
			{ID: dropped, Status: ItemCancelled},
		},
	}

	promoted, err := order.UpdateItemStatus(ready, ItemReady, time.Now())
	require.NoError(t, err)
	assert.True(t, promoted)
	assert.Equal(t, StatusReady, order.Status)
}

func TestEvaluateAvailability(t *testing.T) {
	pizza, pasta, ghost := uuid.New(), uuid.New(), uuid.New()
	items := []Item{
		{MenuItemID: pizza, MenuItemName: "Pizza", Quantity: 2},
		{MenuItemID: pasta, MenuItemName: "Pasta", Quantity: 1},
		{MenuItemID: ghost, MenuItemName: "Ghost", Quantity: 1},
	}
	availability := map[uuid.UUID]ItemAvailability{
		pizza: {MenuItemID: pizza, CanPrepare: true, RequiredIngredients: []IngredientStock{
			{Name: "Mozzarella", RequiredQuantity: 0.2, AvailableQuantity: 0.3},
			{Name: "Dough", RequiredQuantity: 1, AvailableQuantity: 5},
		}},
		pasta: {MenuItemID: pasta, MissingIngredients: []string{"Penne"}},
	}

	unavailable := EvaluateAvailability(items, availability)

	require.Len(t, unavailable, 3)
	assert.Equal(t, "Insufficient ingredients for 2 portions: Mozzarella", unavailable[0].Reason)
	assert.Equal(t, "Insufficient ingredients for 1 portions: Penne", unavailable[1].Reason)
	assert.Equal(t, "Menu item not found in menu", unavailable[2].Reason)
}
