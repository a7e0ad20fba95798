package restaurantserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAPI_Health(t *testing.T) {
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{HealthAPI: NewHealthAPI("billing-payments-service")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "billing-payments-service", body.Service)
	assert.False(t, body.Timestamp.IsZero())
	assert.GreaterOrEqual(t, body.Uptime, 0.0)
}

func TestHealthAPI_DegradedDependency(t *testing.T) {
	h := NewHealthAPI("order-management-service",
		WithCheck("postgres", func(context.Context) error { return nil }),
		WithCheck("rabbitmq", func(context.Context) error { return errors.New("dial tcp: refused") }),
	)
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{HealthAPI: h})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "up", body.Dependencies["postgres"])
	assert.Contains(t, body.Dependencies["rabbitmq"], "refused")
}

func TestHealthAPI_OverviewListsRoutes(t *testing.T) {
	router := newMenuInventoryRouter()

	status, resp := call(t, router, http.MethodGet, "/api", nil)
	require.Equal(t, http.StatusOK, status)
	var overview Overview
	decodeData(t, resp, &overview)
	assert.Equal(t, "menu-inventory-service", overview.Service)
	assert.Equal(t, len(overview.Endpoints), *resp.Count)
	assert.Contains(t, overview.Endpoints, Endpoint{Name: "CheckAvailability", Method: http.MethodPost, Path: "/api/menu/check-availability"})
	assert.Contains(t, overview.Endpoints, Endpoint{Name: "AdjustStock", Method: http.MethodPost, Path: "/api/inventory/:id/adjust"})
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newMenuInventoryRouter()

	status, resp := call(t, router, http.MethodGet, "/api/unknown", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "Route not found", resp.Message)
}
