package menu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuclient "github.com/Apurer/restaurant-ops/internal/clients/http/menu"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

func newCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := menuclient.New(srv.URL)
	require.NoError(t, err)
	catalog, err := NewCatalog(client)
	require.NoError(t, err)
	return catalog
}

func TestCatalog_GetMenuItemNotFound(t *testing.T) {
	catalog := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Menu item not found"}`))
	})

	_, err := catalog.GetMenuItem(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ports.ErrMenuItemNotFound)
}

func TestCatalog_ListIngredientsAndAdjust(t *testing.T) {
	menuID := uuid.New()
	flourID := uuid.New()
	var adjusted float64
	catalog := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/menu/" + menuID.String() + "/ingredients":
			_, _ = w.Write([]byte(`{"success":true,"data":{"menu_item_id":"` + menuID.String() +
				`","menu_item_name":"Bread","ingredients":[{"inventory_item":{"id":"` + flourID.String() +
				`","name":"Flour"},"quantity":0.25,"unit":"kg"}]}}`))
		case "/api/inventory/" + flourID.String() + "/adjust":
			var body struct {
				Adjustment float64 `json:"adjustment"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			adjusted = body.Adjustment
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"` + flourID.String() + `","new_stock":9.5}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	reqs, err := catalog.ListIngredients(context.Background(), menuID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, flourID, reqs[0].InventoryItemID)
	assert.Equal(t, 0.25, reqs[0].Quantity)

	require.NoError(t, catalog.AdjustInventory(context.Background(), flourID, -0.5))
	assert.Equal(t, -0.5, adjusted)
}
