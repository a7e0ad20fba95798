// Package gateway forwards /api requests to the service that owns their path prefix.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// Upstream is a backing service and the path prefixes it owns.
type Upstream struct {
	Name     string
	BaseURL  string
	Prefixes []string
}

type route struct {
	prefix   string
	upstream string
	proxy    *httputil.ReverseProxy
}

// Gateway routes by longest matching prefix.
type Gateway struct {
	routes    []route
	targets   map[string]*url.URL
	order     []string
	transport http.RoundTripper
	probe     *http.Client
	logger    *slog.Logger
}

type Option func(*Gateway)

// WithTransport replaces the outbound transport. It is still wrapped for tracing.
func WithTransport(rt http.RoundTripper) Option {
	return func(g *Gateway) {
		if rt != nil {
			g.transport = rt
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// New validates the upstreams and builds one reverse proxy per service.
func New(upstreams []Upstream, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		targets:   map[string]*url.URL{},
		transport: http.DefaultTransport,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	traced := otelhttp.NewTransport(g.transport)
	g.probe = &http.Client{Transport: traced, Timeout: 3 * time.Second}

	seen := map[string]string{}
	for _, up := range upstreams {
		if up.Name == "" {
			return nil, errors.New("upstream name is required")
		}
		target, err := url.Parse(strings.TrimRight(up.BaseURL, "/"))
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("upstream %s: invalid base url %q", up.Name, up.BaseURL)
		}
		g.targets[up.Name] = target
		g.order = append(g.order, up.Name)
		proxy := g.newProxy(up.Name, target, traced)
		for _, prefix := range up.Prefixes {
			prefix = "/" + strings.Trim(prefix, "/")
			if owner, dup := seen[prefix]; dup {
				return nil, fmt.Errorf("prefix %s claimed by both %s and %s", prefix, owner, up.Name)
			}
			seen[prefix] = up.Name
			g.routes = append(g.routes, route{prefix: prefix, upstream: up.Name, proxy: proxy})
		}
	}
	sort.Slice(g.routes, func(i, j int) bool { return len(g.routes[i].prefix) > len(g.routes[j].prefix) })
	return g, nil
}

func (g *Gateway) newProxy(name string, target *url.URL, transport http.RoundTripper) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			g.logger.LogAttrs(r.Context(), slog.LevelWarn, "upstream unavailable",
				slog.String("upstream", name),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			_ = apierrors.WriteHTTP(w, apierrors.ErrServiceUnavailable.WithDetail(name+" unreachable"))
		},
	}
}

// Match returns the upstream owning path.
func (g *Gateway) Match(path string) (string, bool) {
	r, ok := g.match(path)
	return r.upstream, ok
}

func (g *Gateway) match(path string) (route, bool) {
	for _, r := range g.routes {
		if path == r.prefix || strings.HasPrefix(path, r.prefix+"/") {
			return r, true
		}
	}
	return route{}, false
}

// Proxy forwards the request and copies the upstream response back unchanged.
func (g *Gateway) Proxy(c *gin.Context) {
	r, ok := g.match(c.Request.URL.Path)
	if !ok {
		apierrors.Respond(c, apierrors.ErrNotFound.WithMessage("Route not found"))
		return
	}
	r.proxy.ServeHTTP(c.Writer, c.Request)
}

// Probe checks an upstream's /health.
func (g *Gateway) Probe(ctx context.Context, name string) error {
	target, ok := g.targets[name]
	if !ok {
		return fmt.Errorf("unknown upstream %s", name)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String()+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := g.probe.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %d", resp.StatusCode)
	}
	return nil
}

// Upstreams lists service names in registration order.
func (g *Gateway) Upstreams() []string {
	return append([]string(nil), g.order...)
}
