package restaurantserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/restaurant-ops/internal/domains/orders/application"
	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

// stubCatalog serves a fixed menu; every dish can be prepared unless listed in short.
type stubCatalog struct {
	items map[uuid.UUID]orderports.MenuItemInfo
	short map[uuid.UUID]string
}

func (s *stubCatalog) GetMenuItem(_ context.Context, id uuid.UUID) (orderports.MenuItemInfo, error) {
	info, ok := s.items[id]
	if !ok {
		return orderports.MenuItemInfo{}, orderports.ErrMenuItemNotFound
	}
	return info, nil
}

func (s *stubCatalog) CheckAvailability(_ context.Context, ids []uuid.UUID) ([]orderdomain.ItemAvailability, error) {
	out := make([]orderdomain.ItemAvailability, 0, len(ids))
	for _, id := range ids {
		a := orderdomain.ItemAvailability{MenuItemID: id, CanPrepare: true}
		if name, ok := s.short[id]; ok {
			a.CanPrepare = false
			a.MissingIngredients = []string{name}
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubCatalog) ListIngredients(context.Context, uuid.UUID) ([]orderports.IngredientRequirement, error) {
	return nil, nil
}

func (s *stubCatalog) AdjustInventory(context.Context, uuid.UUID, float64) error { return nil }

func (s *stubCatalog) add(name, price string, available bool) string {
	id := uuid.New()
	s.items[id] = orderports.MenuItemInfo{ID: id, Name: name, Price: decimal.RequireFromString(price), IsAvailable: available, PreparationTime: 10}
	return id.String()
}

type ordersFixture struct {
	router  *gin.Engine
	catalog *stubCatalog
	events  *ordermemory.EventRecorder
}

func newOrdersFixture() ordersFixture {
	catalog := &stubCatalog{items: map[uuid.UUID]orderports.MenuItemInfo{}, short: map[uuid.UUID]string{}}
	events := ordermemory.NewEventRecorder()
	svc := orderapp.NewService(ordermemory.NewRepository(), catalog, orderapp.WithPublisher(events))
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		OrdersAPI: NewOrdersAPI(svc),
		HealthAPI: NewHealthAPI("order-management-service"),
	})
	return ordersFixture{router: router, catalog: catalog, events: events}
}

func orderBody(lines ...map[string]any) map[string]any {
	return map[string]any{
		"table_number": 7,
		"order_type":   "dine-in",
		"waiter_id":    "w-42",
		"waiter_name":  "Marta",
		"items":        lines,
	}
}

func line(menuItemID string, qty int) map[string]any {
	return map[string]any{"menu_item_id": menuItemID, "quantity": qty}
}

type orderView struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Notes       string          `json:"notes"`
	Items       []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"items"`
}

func (f ordersFixture) place(t *testing.T, body map[string]any) orderView {
	t.Helper()
	status, resp := call(t, f.router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusCreated, status, resp.Message+" "+string(resp.Errors))
	require.Equal(t, "Order created successfully", resp.Message)
	var order orderView
	decodeData(t, resp, &order)
	return order
}

func TestOrdersAPI_CreateOrder(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)

	order := f.place(t, orderBody(line(pasta, 2)))

	assert.Regexp(t, `^ORD-\d{8}-\d{4}$`, order.OrderNumber)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, decimal.RequireFromString("20").Equal(order.Subtotal))
	assert.True(t, decimal.RequireFromString("2").Equal(order.Tax))
	assert.True(t, decimal.RequireFromString("22").Equal(order.Total))
	assert.Equal(t, []string{orderdomain.EventOrderCreated}, f.events.Names())
}

func TestOrdersAPI_CreateOrderRejections(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)
	soldOut := f.catalog.add("Soup", "6.00", false)
	short := f.catalog.add("Steak", "25.00", true)
	f.catalog.short[uuid.MustParse(short)] = "Beef"

	status, resp := call(t, f.router, http.MethodPost, "/api/orders", orderBody(line(soldOut, 1)))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Menu item "+soldOut+" not found or not available", resp.Message)

	missing := uuid.NewString()
	status, resp = call(t, f.router, http.MethodPost, "/api/orders", orderBody(line(missing, 1)))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Menu item "+missing+" not found or not available", resp.Message)

	status, resp = call(t, f.router, http.MethodPost, "/api/orders", orderBody(line(pasta, 1), line(short, 2)))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient inventory for order", resp.Message)
	var unavailable []struct {
		MenuItemName string `json:"menu_item_name"`
		Quantity     int    `json:"quantity"`
		Reason       string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(resp.Errors, &unavailable))
	require.Len(t, unavailable, 1)
	assert.Equal(t, "Steak", unavailable[0].MenuItemName)
	assert.Equal(t, 2, unavailable[0].Quantity)
	assert.Contains(t, unavailable[0].Reason, "Beef")

	body := orderBody(line(pasta, 1))
	delete(body, "table_number")
	status, resp = call(t, f.router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation error", resp.Message)

	status, resp = call(t, f.router, http.MethodPost, "/api/orders", orderBody())
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(resp.Errors), "items")

	assert.Empty(t, f.events.Names())
}

func TestOrdersAPI_StatusLifecycle(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)
	order := f.place(t, orderBody(line(pasta, 1)))
	path := "/api/orders/" + order.ID

	status, resp := call(t, f.router, http.MethodPatch, path+"/status", map[string]any{"status": "simmering"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation error", resp.Message)

	status, _ = call(t, f.router, http.MethodPatch, path+"/status", map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, status)

	status, resp = call(t, f.router, http.MethodGet, "/api/orders/kitchen", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, *resp.Count)

	status, resp = call(t, f.router, http.MethodPatch, path+"/status", map[string]any{"status": "pending"})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, f.router, http.MethodPatch, path+"/status", map[string]any{"status": "served"})
	require.Equal(t, http.StatusOK, status)

	status, resp = call(t, f.router, http.MethodPost, path+"/cancel", map[string]any{"reason": "too late"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot cancel order with status: served", resp.Message)

	assert.Contains(t, f.events.Names(), orderdomain.EventBillingRequest)
}

func TestOrdersAPI_Cancel(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)
	order := f.place(t, orderBody(line(pasta, 1)))

	status, resp := call(t, f.router, http.MethodPost, "/api/orders/"+order.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Order cancelled successfully", resp.Message)
	var cancelled orderView
	decodeData(t, resp, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Contains(t, cancelled.Notes, "Cancelled: No reason provided")
	for _, item := range cancelled.Items {
		assert.Equal(t, "cancelled", item.Status)
	}
	assert.Equal(t, orderdomain.EventOrderCancelled, f.events.Names()[len(f.events.Names())-1])
}

func TestOrdersAPI_CancelWithChunkedBody(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)
	first := f.place(t, orderBody(line(pasta, 1)))
	second := f.place(t, orderBody(line(pasta, 1)))

	status, resp := callChunked(t, f.router, http.MethodPost, "/api/orders/"+first.ID+"/cancel", "")
	require.Equal(t, http.StatusOK, status)
	var cancelled orderView
	decodeData(t, resp, &cancelled)
	assert.Contains(t, cancelled.Notes, "Cancelled: No reason provided")

	status, resp = callChunked(t, f.router, http.MethodPost, "/api/orders/"+second.ID+"/cancel", `{"reason":"kitchen closed"}`)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, resp, &cancelled)
	assert.Contains(t, cancelled.Notes, "Cancelled: kitchen closed")

	status, _ = callChunked(t, f.router, http.MethodPost, "/api/orders/"+second.ID+"/cancel", `{"reason":`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOrdersAPI_ItemStatusPromotesOrder(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)
	order := f.place(t, orderBody(line(pasta, 1)))
	path := "/api/orders/" + order.ID

	status, _ := call(t, f.router, http.MethodPatch, path+"/status", map[string]any{"status": "preparing"})
	require.Equal(t, http.StatusOK, status)

	status, resp := call(t, f.router, http.MethodPatch, path+"/items/"+uuid.NewString()+"/status", map[string]any{"status": "ready"})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Order item not found", resp.Message)

	status, resp = call(t, f.router, http.MethodPatch, path+"/items/"+order.Items[0].ID+"/status", map[string]any{"status": "ready"})
	require.Equal(t, http.StatusOK, status)
	var updated orderView
	decodeData(t, resp, &updated)
	assert.Equal(t, "ready", updated.Status)
}

func TestOrdersAPI_Lookups(t *testing.T) {
	f := newOrdersFixture()
	pasta := f.catalog.add("Pasta", "10.00", true)
	f.place(t, orderBody(line(pasta, 1)))
	other := orderBody(line(pasta, 3))
	other["table_number"] = 9
	other["waiter_id"] = "w-7"
	f.place(t, other)

	_, resp := call(t, f.router, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, 2, *resp.Count)

	_, resp = call(t, f.router, http.MethodGet, "/api/orders/table/9", nil)
	assert.Equal(t, 1, *resp.Count)

	_, resp = call(t, f.router, http.MethodGet, "/api/orders/waiter/w-42", nil)
	assert.Equal(t, 1, *resp.Count)

	_, resp = call(t, f.router, http.MethodGet, "/api/orders?status=pending,confirmed&waiter_id=w-7", nil)
	assert.Equal(t, 1, *resp.Count)

	status, _ := call(t, f.router, http.MethodGet, "/api/orders/table/nine", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = call(t, f.router, http.MethodGet, "/api/orders?status=lost&date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(resp.Errors), "status")
	assert.Contains(t, string(resp.Errors), "date")

	status, resp = call(t, f.router, http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Order not found", resp.Message)

	status, resp = call(t, f.router, http.MethodGet, "/api/orders/123", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid order ID format", resp.Message)
}
