package restaurantserver

import (
	"github.com/gin-gonic/gin"

	invports "github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
	menumapper "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/http/mapper"
	menuapp "github.com/Apurer/restaurant-ops/internal/domains/menu/application"
	menutypes "github.com/Apurer/restaurant-ops/internal/domains/menu/application/types"
	menudomain "github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	menuports "github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
	"github.com/Apurer/restaurant-ops/internal/shared/envelope"
	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// MenuAPI exposes menu items, their recipes and availability checks.
type MenuAPI struct {
	service   menuports.Service
	responder *apierrors.ChainedResponder
}

// NewMenuAPI creates a MenuAPI backed by the provided service.
func NewMenuAPI(service menuports.Service) *MenuAPI {
	return &MenuAPI{
		service: service,
		responder: apierrors.NewChainedResponder("Error processing menu request",
			apierrors.Is(menuports.ErrNotFound, apierrors.ErrNotFound, "Menu item not found"),
			apierrors.Is(invports.ErrNotFound, apierrors.ErrNotFound, "Inventory item not found"),
			apierrors.Is(menuports.ErrIngredientNotFound, apierrors.ErrNotFound, "Ingredient association not found"),
			apierrors.Is(menuports.ErrIngredientExists, apierrors.ErrBadRequest, "Ingredient already associated with this menu item"),
			invalidInput(menuapp.ErrInvalidInput),
		),
	}
}

// Get /api/menu
// Lists menu items by category then name
func (api *MenuAPI) ListMenuItems(c *gin.Context) {
	q := newQueryFilters(c)
	filter := menuports.Filter{
		Category:  menudomain.Category(c.Query("category")),
		Available: q.Bool("available"),
	}
	if q.Failed() {
		return
	}
	api.list(c, filter, "Error fetching menu items")
}

// Get /api/menu/available
func (api *MenuAPI) ListAvailableMenuItems(c *gin.Context) {
	available := true
	api.list(c, menuports.Filter{Available: &available}, "Error fetching available menu items")
}

func (api *MenuAPI) list(c *gin.Context, filter menuports.Filter, fallback string) {
	items, err := api.service.ListMenuItems(c.Request.Context(), filter)
	if err != nil {
		api.fail(c, err, fallback)
		return
	}
	envelope.OK(c, menumapper.FromDomainMenuItems(items), envelope.WithCount(len(items)))
}

// Get /api/menu/:id
func (api *MenuAPI) GetMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	item, err := api.service.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "Error fetching menu item")
		return
	}
	envelope.OK(c, menumapper.FromDomainMenuItem(item))
}

// Post /api/menu
func (api *MenuAPI) CreateMenuItem(c *gin.Context) {
	var payload menumapper.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	item, err := api.service.CreateMenuItem(c.Request.Context(), menumapper.ToCreateInput(payload))
	if err != nil {
		api.fail(c, err, "Error creating menu item")
		return
	}
	envelope.Created(c, "Menu item created successfully", menumapper.FromDomainMenuItem(item))
}

// Put /api/menu/:id
func (api *MenuAPI) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	var payload menumapper.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	item, err := api.service.UpdateMenuItem(c.Request.Context(), id, menumapper.ToUpdateInput(payload))
	if err != nil {
		api.fail(c, err, "Error updating menu item")
		return
	}
	envelope.OK(c, menumapper.FromDomainMenuItem(item), envelope.WithMessage("Menu item updated successfully"))
}

// Delete /api/menu/:id
func (api *MenuAPI) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	if err := api.service.DeleteMenuItem(c.Request.Context(), id); err != nil {
		api.fail(c, err, "Error deleting menu item")
		return
	}
	envelope.Message(c, "Menu item deleted successfully")
}

// Get /api/menu/:id/ingredients
func (api *MenuAPI) ListIngredients(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	recipe, err := api.service.ListIngredients(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "Error fetching menu item ingredients")
		return
	}
	envelope.OK(c, menumapper.FromMenuIngredients(recipe), envelope.WithCount(len(recipe.Ingredients)))
}

// Post /api/menu/:id/ingredients
func (api *MenuAPI) AddIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	var payload menumapper.AddIngredientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	inventoryID, _, ok := menumapper.ParseIDs([]string{payload.InventoryItemID})
	if !ok {
		apierrors.Respond(c, apierrors.NewInvalidIDProblem("inventory item"))
		return
	}
	link, err := api.service.AddIngredient(c.Request.Context(), menutypes.AddIngredientInput{
		MenuItemID:      id,
		InventoryItemID: inventoryID[0],
		Quantity:        payload.Quantity,
		Unit:            payload.Unit,
	})
	if err != nil {
		api.fail(c, err, "Error adding ingredient")
		return
	}
	envelope.Created(c, "Ingredient added successfully", menumapper.FromIngredientDetail(link))
}

// Put /api/menu/:id/ingredients/:inventoryId
func (api *MenuAPI) UpdateIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	inventoryID, ok := parseIDParam(c, "inventoryId", "inventory item")
	if !ok {
		return
	}
	var payload menumapper.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	link, err := api.service.UpdateIngredient(c.Request.Context(), menutypes.UpdateIngredientInput{
		MenuItemID:      id,
		InventoryItemID: inventoryID,
		Quantity:        payload.Quantity,
		Unit:            payload.Unit,
	})
	if err != nil {
		api.fail(c, err, "Error updating ingredient")
		return
	}
	envelope.OK(c, menumapper.FromIngredientDetail(link), envelope.WithMessage("Ingredient updated successfully"))
}

// Delete /api/menu/:id/ingredients/:inventoryId
func (api *MenuAPI) RemoveIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "menu item")
	if !ok {
		return
	}
	inventoryID, ok := parseIDParam(c, "inventoryId", "inventory item")
	if !ok {
		return
	}
	if err := api.service.RemoveIngredient(c.Request.Context(), id, inventoryID); err != nil {
		api.fail(c, err, "Error removing ingredient")
		return
	}
	envelope.Message(c, "Ingredient removed successfully")
}

// Post /api/menu/check-availability
// Reports which menu items current stock can prepare; an empty list checks every item
func (api *MenuAPI) CheckAvailability(c *gin.Context) {
	var payload menumapper.CheckAvailabilityRequest
	if !bindOptionalJSON(c, &payload) {
		return
	}
	ids, bad, ok := menumapper.ParseIDs(payload.MenuItemIDs)
	if !ok {
		apierrors.Respond(c, apierrors.NewInvalidIDProblem("menu item").WithDetail(bad))
		return
	}
	results, err := api.service.CheckAvailability(c.Request.Context(), ids)
	if err != nil {
		api.fail(c, err, "Error checking availability")
		return
	}
	data, summary := menumapper.FromDomainAvailability(results)
	envelope.OK(c, data, envelope.WithSummary(summary))
}

func (api *MenuAPI) fail(c *gin.Context, err error, fallback string) {
	api.responder.WithFallback(fallback).RespondError(c, err)
}
