package restaurantserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	invmemory "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/memory"
	invapp "github.com/Apurer/restaurant-ops/internal/domains/inventory/application"
	menumemory "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/memory"
	menuapp "github.com/Apurer/restaurant-ops/internal/domains/menu/application"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMenuInventoryRouter() *gin.Engine {
	menuRepo := menumemory.NewRepository()
	stock := invmemory.NewRepository()
	return NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		MenuAPI:      NewMenuAPI(menuapp.NewService(menuRepo, menuRepo, stock)),
		InventoryAPI: NewInventoryAPI(invapp.NewService(stock, invapp.WithIngredientCleaner(menuRepo))),
		HealthAPI:    NewHealthAPI("menu-inventory-service"),
	})
}

// response is the decoded envelope of any reply.
type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Summary map[string]any  `json:"summary"`
	Errors  json.RawMessage `json:"errors"`
}

func call(t *testing.T, h http.Handler, method, path string, body any) (int, response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

// callChunked sends body with no declared length, the way a chunked upload arrives.
func callChunked(t *testing.T, h http.Handler, method, path string, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, io.MultiReader(bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	require.EqualValues(t, -1, req.ContentLength)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func decodeData(t *testing.T, r response, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, into))
}

type created struct {
	ID string `json:"id"`
}

func mustCreate(t *testing.T, h http.Handler, path string, body any) string {
	t.Helper()
	status, resp := call(t, h, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, status, resp.Message+" "+resp.Error+" "+string(resp.Errors))
	var c created
	decodeData(t, resp, &c)
	require.NotEmpty(t, c.ID)
	return c.ID
}

func dish(name string, price float64) map[string]any {
	return map[string]any{"name": name, "price": price, "category": "main", "preparation_time": 20}
}

func stockItem(name string, current, minimum float64) map[string]any {
	return map[string]any{
		"name":          name,
		"current_stock": current,
		"minimum_stock": minimum,
		"maximum_stock": 100,
		"unit":          "kg",
		"cost_per_unit": 2.5,
	}
}
