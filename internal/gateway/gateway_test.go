package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	restaurantserver "github.com/Apurer/restaurant-ops/go"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// echoService answers every request with its own name and the path it received.
func echoService(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", name)
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, `{"success":true,"data":{"path":"`+r.URL.RequestURI()+`"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func newTestGateway(t *testing.T, upstreams []Upstream, secret []byte) (*Gateway, *gin.Engine) {
	t.Helper()
	gw, err := New(upstreams)
	require.NoError(t, err)
	var checks []restaurantserver.HealthOption
	for _, name := range gw.Upstreams() {
		name := name
		checks = append(checks, restaurantserver.WithCheck(name, func(ctx context.Context) error {
			return gw.Probe(ctx, name)
		}))
	}
	router := NewRouterWithGinEngine(gin.New(), gw, RouterOptions{
		Health:    restaurantserver.NewHealthAPI("api-gateway", checks...),
		JWTSecret: secret,
	})
	return gw, router
}

// reply is a finished response read off the wire.
type reply struct {
	Code   int
	header http.Header
	Body   *bytes.Buffer
}

func (r reply) Header() http.Header { return r.header }

// serve runs router behind a real listener; the proxy needs a connection that supports CloseNotify.
func serve(t *testing.T, router http.Handler, method, path, token string) reply {
	t.Helper()
	srv := httptest.NewServer(router)
	defer srv.Close()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := new(bytes.Buffer)
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	return reply{Code: resp.StatusCode, header: resp.Header, Body: body}
}

func TestGateway_ForwardsVerbatimByPrefix(t *testing.T) {
	menu := echoService(t, "menu")
	orders := echoService(t, "orders")
	_, router := newTestGateway(t, []Upstream{
		{Name: "menu-inventory", BaseURL: menu.URL, Prefixes: []string{"/api/menu", "/api/inventory"}},
		{Name: "orders", BaseURL: orders.URL + "/", Prefixes: []string{"/api/orders"}},
	}, nil)

	rec := serve(t, router, http.MethodGet, "/api/inventory/alerts?low_stock=true", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "menu", rec.Header().Get("X-Upstream"))
	assert.JSONEq(t, `{"success":true,"data":{"path":"/api/inventory/alerts?low_stock=true"}}`, rec.Body.String())

	rec = serve(t, router, http.MethodPatch, "/api/orders/42/status", "")
	assert.Equal(t, "orders", rec.Header().Get("X-Upstream"))

	rec = serve(t, router, http.MethodGet, "/api/menus", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Route not found", body.Message)

	rec = serve(t, router, http.MethodGet, "/elsewhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGateway_UnreachableUpstream(t *testing.T) {
	_, router := newTestGateway(t, []Upstream{
		{Name: "billing", BaseURL: deadURL(t), Prefixes: []string{"/api/bills"}},
	}, nil)

	rec := serve(t, router, http.MethodGet, "/api/bills", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Service temporarily unavailable", body.Message)
	assert.Equal(t, "billing unreachable", body.Error)
}

func TestGateway_BearerToken(t *testing.T) {
	secret := []byte("s3cret")
	menu := echoService(t, "menu")
	_, router := newTestGateway(t, []Upstream{
		{Name: "menu-inventory", BaseURL: menu.URL, Prefixes: []string{"/api/menu"}},
	}, secret)

	rec := serve(t, router, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Authentication required", body.Message)

	valid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "waiter-7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	rec = serve(t, router, http.MethodGet, "/api/menu", valid)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	rec = serve(t, router, http.MethodGet, "/api/menu", expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{}).SignedString(secret)
	require.NoError(t, err)
	rec = serve(t, router, http.MethodGet, "/api/menu", wrongAlg)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateway_HealthReportsUpstreams(t *testing.T) {
	menu := echoService(t, "menu")
	_, router := newTestGateway(t, []Upstream{
		{Name: "menu-inventory", BaseURL: menu.URL, Prefixes: []string{"/api/menu"}},
		{Name: "billing", BaseURL: deadURL(t), Prefixes: []string{"/api/bills"}},
	}, nil)

	rec := serve(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status restaurantserver.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "api-gateway", status.Service)
	assert.Equal(t, "up", status.Dependencies["menu-inventory"])
	assert.NotEqual(t, "up", status.Dependencies["billing"])
}

func TestNew_RejectsBadUpstreams(t *testing.T) {
	_, err := New([]Upstream{{Name: "menu", BaseURL: "localhost:3001", Prefixes: []string{"/api/menu"}}})
	assert.Error(t, err)

	_, err = New([]Upstream{
		{Name: "a", BaseURL: "http://a", Prefixes: []string{"/api/menu"}},
		{Name: "b", BaseURL: "http://b", Prefixes: []string{"api/menu/"}},
	})
	assert.ErrorContains(t, err, "claimed by both")

	gw, err := New([]Upstream{
		{Name: "menu", BaseURL: "http://menu", Prefixes: []string{"/api/menu"}},
		{Name: "specials", BaseURL: "http://specials", Prefixes: []string{"/api/menu/specials"}},
	})
	require.NoError(t, err)
	name, ok := gw.Match("/api/menu/specials/today")
	require.True(t, ok)
	assert.Equal(t, "specials", name)
	name, _ = gw.Match("/api/menu/123")
	assert.Equal(t, "menu", name)
}
