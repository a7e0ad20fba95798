package restaurantserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions holds the handlers a service exposes. A nil API leaves its routes unregistered.
type ApiHandleFunctions struct {
	MenuAPI      *MenuAPI
	InventoryAPI *InventoryAPI
	OrdersAPI    *OrdersAPI
	BillingAPI   *BillingAPI
	HealthAPI    *HealthAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the service routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	routes := getRoutes(handleFunctions)
	for _, route := range routes {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	if h := handleFunctions.HealthAPI; h != nil {
		router.GET("/health", h.Health)
		router.GET("/api", h.Overview(routes))
	}
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithMessage("Route not found").WithDetail(c.Request.Method+" "+c.Request.URL.Path))
	})
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	var routes []Route
	if api := h.MenuAPI; api != nil {
		routes = append(routes,
			Route{"ListMenuItems", http.MethodGet, "/api/menu", api.ListMenuItems},
			Route{"ListAvailableMenuItems", http.MethodGet, "/api/menu/available", api.ListAvailableMenuItems},
			Route{"CheckAvailability", http.MethodPost, "/api/menu/check-availability", api.CheckAvailability},
			Route{"GetMenuItem", http.MethodGet, "/api/menu/:id", api.GetMenuItem},
			Route{"CreateMenuItem", http.MethodPost, "/api/menu", api.CreateMenuItem},
			Route{"UpdateMenuItem", http.MethodPut, "/api/menu/:id", api.UpdateMenuItem},
			Route{"DeleteMenuItem", http.MethodDelete, "/api/menu/:id", api.DeleteMenuItem},
			Route{"ListIngredients", http.MethodGet, "/api/menu/:id/ingredients", api.ListIngredients},
			Route{"AddIngredient", http.MethodPost, "/api/menu/:id/ingredients", api.AddIngredient},
			Route{"UpdateIngredient", http.MethodPut, "/api/menu/:id/ingredients/:inventoryId", api.UpdateIngredient},
			Route{"RemoveIngredient", http.MethodDelete, "/api/menu/:id/ingredients/:inventoryId", api.RemoveIngredient},
		)
	}
	if api := h.InventoryAPI; api != nil {
		routes = append(routes,
			Route{"ListInventoryItems", http.MethodGet, "/api/inventory", api.ListItems},
			Route{"GetInventoryAlerts", http.MethodGet, "/api/inventory/alerts", api.Alerts},
			Route{"GetInventoryItem", http.MethodGet, "/api/inventory/:id", api.GetItem},
			Route{"CreateInventoryItem", http.MethodPost, "/api/inventory", api.CreateItem},
			Route{"UpdateInventoryItem", http.MethodPut, "/api/inventory/:id", api.UpdateItem},
			Route{"DeleteInventoryItem", http.MethodDelete, "/api/inventory/:id", api.DeleteItem},
			Route{"AdjustStock", http.MethodPost, "/api/inventory/:id/adjust", api.AdjustStock},
		)
	}
	if api := h.OrdersAPI; api != nil {
		routes = append(routes,
			Route{"ListOrders", http.MethodGet, "/api/orders", api.ListOrders},
			Route{"KitchenQueue", http.MethodGet, "/api/orders/kitchen", api.KitchenQueue},
			Route{"ListOrdersByTable", http.MethodGet, "/api/orders/table/:tableNumber", api.ListOrdersByTable},
			Route{"ListOrdersByWaiter", http.MethodGet, "/api/orders/waiter/:waiterId", api.ListOrdersByWaiter},
			Route{"GetOrder", http.MethodGet, "/api/orders/:id", api.GetOrder},
			Route{"CreateOrder", http.MethodPost, "/api/orders", api.CreateOrder},
			Route{"UpdateOrder", http.MethodPut, "/api/orders/:id", api.UpdateOrder},
			Route{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:id/status", api.UpdateStatus},
			Route{"CancelOrder", http.MethodPost, "/api/orders/:id/cancel", api.CancelOrder},
			Route{"UpdateOrderItemStatus", http.MethodPatch, "/api/orders/:id/items/:itemId/status", api.UpdateItemStatus},
		)
	}
	if api := h.BillingAPI; api != nil {
		routes = append(routes,
			Route{"ListBills", http.MethodGet, "/api/bills", api.ListBills},
			Route{"GetBillByOrder", http.MethodGet, "/api/bills/order/:orderId", api.GetBillByOrder},
			Route{"GetBill", http.MethodGet, "/api/bills/:id", api.GetBill},
			Route{"CreateBill", http.MethodPost, "/api/bills", api.CreateBill},
			Route{"ListPayments", http.MethodGet, "/api/payments", api.ListPayments},
			Route{"GetPayment", http.MethodGet, "/api/payments/:id", api.GetPayment},
			Route{"ProcessPayment", http.MethodPost, "/api/payments", api.ProcessPayment},
			Route{"DailySummary", http.MethodGet, "/api/reports/daily-summary", api.DailySummary},
		)
	}
	return routes
}
