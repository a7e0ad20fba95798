package restaurantserver

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/http/mapper"
	orderapp "github.com/Apurer/restaurant-ops/internal/domains/orders/application"
	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	"github.com/Apurer/restaurant-ops/internal/shared/envelope"
	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// OrdersAPI exposes order placement, kitchen progress and cancellation.
type OrdersAPI struct {
	service   orderports.Service
	responder *apierrors.ChainedResponder
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service orderports.Service) *OrdersAPI {
	return &OrdersAPI{
		service: service,
		responder: apierrors.NewChainedResponder("Error processing order request",
			apierrors.Is(orderports.ErrNotFound, apierrors.ErrNotFound, "Order not found"),
			apierrors.Is(orderdomain.ErrItemNotFound, apierrors.ErrNotFound, "Order item not found"),
			unavailableMenuItem,
			insufficientInventory,
			uncancellable,
			apierrors.Is(orderapp.ErrMenuUnavailable, apierrors.ErrBadRequest, "Error validating menu items"),
			invalidInput(orderapp.ErrInvalidInput),
		),
	}
}

func unavailableMenuItem(err error) (apierrors.Problem, bool) {
	var target *orderapp.MenuItemUnavailableError
	if !errors.As(err, &target) {
		return apierrors.Problem{}, false
	}
	return apierrors.ErrBadRequest.WithMessage(sentence(target.Error())), true
}

func insufficientInventory(err error) (apierrors.Problem, bool) {
	var target *orderapp.InsufficientInventoryError
	if !errors.As(err, &target) {
		return apierrors.Problem{}, false
	}
	return apierrors.ErrBadRequest.
		WithMessage("Insufficient inventory for order").
		WithErrors(ordermapper.FromUnavailable(target.Items)), true
}

func uncancellable(err error) (apierrors.Problem, bool) {
	var target *orderdomain.CancelError
	if !errors.As(err, &target) {
		return apierrors.Problem{}, false
	}
	return apierrors.ErrBadRequest.WithMessage(sentence(target.Error())), true
}

// Get /api/orders
// Lists orders newest first; status accepts a comma separated list
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	q := newQueryFilters(c)
	filter := orderports.Filter{
		WaiterID:    c.Query("waiter_id"),
		TableNumber: q.Int("table_number"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := orderdomain.ParseStatus(part)
			if err != nil {
				q.Invalid("status", "unknown order status "+strconv.Quote(strings.TrimSpace(part)))
				continue
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if day := q.Day("date"); day != nil {
		end := day.AddDate(0, 0, 1)
		filter.From, filter.To = day, &end
	} else {
		filter.From, filter.To = q.Range("date_from", "date_to")
	}
	if q.Failed() {
		return
	}
	api.list(c, filter, "Error fetching orders")
}

// Get /api/orders/kitchen
// Confirmed and preparing orders, oldest first
func (api *OrdersAPI) KitchenQueue(c *gin.Context) {
	orders, err := api.service.KitchenQueue(c.Request.Context())
	if err != nil {
		api.fail(c, err, "Error fetching kitchen orders")
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrders(orders), envelope.WithCount(len(orders)))
}

// Get /api/orders/table/:tableNumber
func (api *OrdersAPI) ListOrdersByTable(c *gin.Context) {
	table, err := strconv.Atoi(c.Param("tableNumber"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithMessage("Invalid table number"))
		return
	}
	api.list(c, orderports.Filter{TableNumber: &table}, "Error fetching orders by table")
}

// Get /api/orders/waiter/:waiterId
func (api *OrdersAPI) ListOrdersByWaiter(c *gin.Context) {
	api.list(c, orderports.Filter{WaiterID: c.Param("waiterId")}, "Error fetching orders by waiter")
}

func (api *OrdersAPI) list(c *gin.Context, filter orderports.Filter, fallback string) {
	orders, err := api.service.ListOrders(c.Request.Context(), filter)
	if err != nil {
		api.fail(c, err, fallback)
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrders(orders), envelope.WithCount(len(orders)))
}

// Get /api/orders/:id
func (api *OrdersAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "Error fetching order")
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrder(order))
}

// Post /api/orders
// Prices the order from the menu, checks stock and stores it as pending
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload ordermapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), ordermapper.ToCreateInput(payload))
	if err != nil {
		api.fail(c, err, "Error creating order")
		return
	}
	envelope.Created(c, "Order created successfully", ordermapper.FromDomainOrder(order))
}

// Put /api/orders/:id
func (api *OrdersAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	var payload ordermapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.UpdateOrder(c.Request.Context(), id, ordermapper.ToUpdateInput(payload))
	if err != nil {
		api.fail(c, err, "Error updating order")
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrder(order), envelope.WithMessage("Order updated successfully"))
}

// Patch /api/orders/:id/status
func (api *OrdersAPI) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	var payload ordermapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		api.fail(c, err, "Error updating order status")
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrder(order), envelope.WithMessage("Order status updated successfully"))
}

// Post /api/orders/:id/cancel
func (api *OrdersAPI) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	var payload ordermapper.CancelRequest
	if !bindOptionalJSON(c, &payload) {
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), id, payload.Reason)
	if err != nil {
		api.fail(c, err, "Error cancelling order")
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrder(order), envelope.WithMessage("Order cancelled successfully"))
}

// Patch /api/orders/:id/items/:itemId/status
func (api *OrdersAPI) UpdateItemStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId", "order item")
	if !ok {
		return
	}
	var payload ordermapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.UpdateItemStatus(c.Request.Context(), id, itemID, payload.Status)
	if err != nil {
		api.fail(c, err, "Error updating order item status")
		return
	}
	envelope.OK(c, ordermapper.FromDomainOrder(order), envelope.WithMessage("Order item status updated successfully"))
}

func (api *OrdersAPI) fail(c *gin.Context, err error, fallback string) {
	api.responder.WithFallback(fallback).RespondError(c, err)
}
