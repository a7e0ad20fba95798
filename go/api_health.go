package restaurantserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/restaurant-ops/internal/shared/envelope"
)

// Check probes a dependency such as the database; a nil error means it is reachable.
type Check func(ctx context.Context) error

// HealthAPI reports liveness and lists the routes a service serves.
type HealthAPI struct {
	service string
	version string
	started time.Time
	checks  map[string]Check
	now     func() time.Time
}

// HealthOption customises a HealthAPI.
type HealthOption func(*HealthAPI)

// WithCheck adds a named dependency probe to /health.
func WithCheck(name string, check Check) HealthOption {
	return func(h *HealthAPI) {
		if check != nil {
			h.checks[name] = check
		}
	}
}

// WithVersion sets the version reported by /api.
func WithVersion(version string) HealthOption {
	return func(h *HealthAPI) {
		h.version = version
	}
}

// NewHealthAPI creates the health endpoints for the named service.
func NewHealthAPI(service string, opts ...HealthOption) *HealthAPI {
	h := &HealthAPI{
		service: service,
		version: "1.0.0",
		checks:  map[string]Check{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.started = h.now()
	return h
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Timestamp    time.Time         `json:"timestamp"`
	Uptime       float64           `json:"uptime"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Get /health
// Answers 503 with status "degraded" when a dependency probe fails
func (h *HealthAPI) Health(c *gin.Context) {
	now := h.now()
	status := HealthStatus{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(h.started).Seconds(),
	}
	code := http.StatusOK
	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status.Dependencies = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				status.Dependencies[name] = "down: " + err.Error()
				status.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status.Dependencies[name] = "up"
		}
	}
	c.JSON(code, status)
}

// Endpoint describes one registered route.
type Endpoint struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Overview is the data of GET /api.
type Overview struct {
	Service   string     `json:"service"`
	Version   string     `json:"version"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Overview builds the GET /api handler for the given routes.
func (h *HealthAPI) Overview(routes []Route) gin.HandlerFunc {
	endpoints := make([]Endpoint, 0, len(routes))
	for _, r := range routes {
		endpoints = append(endpoints, Endpoint{Name: r.Name, Method: r.Method, Path: r.Pattern})
	}
	sort.SliceStable(endpoints, func(i, j int) bool { return endpoints[i].Path < endpoints[j].Path })
	overview := Overview{Service: h.service, Version: h.version, Endpoints: endpoints}
	return func(c *gin.Context) {
		envelope.OK(c, overview, envelope.WithCount(len(endpoints)))
	}
}
