package restaurantserver

import (
	"github.com/gin-gonic/gin"

	invmapper "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/http/mapper"
	invapp "github.com/Apurer/restaurant-ops/internal/domains/inventory/application"
	invdomain "github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	invports "github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
	"github.com/Apurer/restaurant-ops/internal/shared/envelope"
	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// InventoryAPI exposes stocked items, stock adjustments and alerts.
type InventoryAPI struct {
	service   invports.Service
	responder *apierrors.ChainedResponder
}

// NewInventoryAPI creates an InventoryAPI backed by the provided service.
func NewInventoryAPI(service invports.Service) *InventoryAPI {
	return &InventoryAPI{
		service: service,
		responder: apierrors.NewChainedResponder("Error processing inventory request",
			apierrors.Is(invports.ErrNotFound, apierrors.ErrNotFound, "Inventory item not found"),
			apierrors.Is(invdomain.ErrAdjustmentRequired, apierrors.ErrBadRequest, "Adjustment value is required"),
			apierrors.Is(invdomain.ErrStockBelowZero, apierrors.ErrBadRequest, "Cannot reduce stock below zero"),
			invalidInput(invapp.ErrInvalidInput),
		),
	}
}

// Get /api/inventory
func (api *InventoryAPI) ListItems(c *gin.Context) {
	q := newQueryFilters(c)
	filter := invports.Filter{
		LowStock:   q.Bool("low_stock"),
		OutOfStock: q.Bool("out_of_stock"),
		Perishable: q.Bool("perishable"),
	}
	if q.Failed() {
		return
	}
	items, err := api.service.ListItems(c.Request.Context(), filter)
	if err != nil {
		api.fail(c, err, "Error fetching inventory items")
		return
	}
	envelope.OK(c, invmapper.FromDomainItems(items), envelope.WithCount(len(items)))
}

// Get /api/inventory/alerts
// Low stock, out of stock and perishables expiring within a week
func (api *InventoryAPI) Alerts(c *gin.Context) {
	alerts, err := api.service.Alerts(c.Request.Context())
	if err != nil {
		api.fail(c, err, "Error fetching low stock alerts")
		return
	}
	data, summary := invmapper.FromDomainAlerts(alerts)
	envelope.OK(c, data, envelope.WithSummary(summary))
}

// Get /api/inventory/:id
func (api *InventoryAPI) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "inventory item")
	if !ok {
		return
	}
	item, err := api.service.GetItem(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "Error fetching inventory item")
		return
	}
	envelope.OK(c, invmapper.FromDomainItem(item))
}

// Post /api/inventory
func (api *InventoryAPI) CreateItem(c *gin.Context) {
	var payload invmapper.CreateItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	item, err := api.service.CreateItem(c.Request.Context(), invmapper.ToCreateInput(payload))
	if err != nil {
		api.fail(c, err, "Error creating inventory item")
		return
	}
	envelope.Created(c, "Inventory item created successfully", invmapper.FromDomainItem(item))
}

// Put /api/inventory/:id
func (api *InventoryAPI) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "inventory item")
	if !ok {
		return
	}
	var payload invmapper.UpdateItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), id, invmapper.ToUpdateInput(payload))
	if err != nil {
		api.fail(c, err, "Error updating inventory item")
		return
	}
	envelope.OK(c, invmapper.FromDomainItem(item), envelope.WithMessage("Inventory item updated successfully"))
}

// Delete /api/inventory/:id
func (api *InventoryAPI) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "inventory item")
	if !ok {
		return
	}
	if err := api.service.DeleteItem(c.Request.Context(), id); err != nil {
		api.fail(c, err, "Error deleting inventory item")
		return
	}
	envelope.Message(c, "Inventory item deleted successfully")
}

// Post /api/inventory/:id/adjust
// Applies a signed stock delta
func (api *InventoryAPI) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "inventory item")
	if !ok {
		return
	}
	var payload invmapper.AdjustStockRequest
	if !bindOptionalJSON(c, &payload) {
		return
	}
	var delta float64
	if payload.Adjustment != nil {
		delta = *payload.Adjustment
	}
	adj, err := api.service.AdjustStock(c.Request.Context(), id, delta)
	if err != nil {
		api.fail(c, err, "Error updating stock")
		return
	}
	envelope.OK(c, invmapper.FromDomainAdjustment(adj), envelope.WithMessage("Stock adjusted successfully"))
}

func (api *InventoryAPI) fail(c *gin.Context, err error, fallback string) {
	api.responder.WithFallback(fallback).RespondError(c, err)
}
