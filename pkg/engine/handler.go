// Core HTTP request handler for the mock engine.

package engine

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/localmock/localmock/pkg/chaos"
	"github.com/localmock/localmock/pkg/config"
	"github.com/localmock/localmock/pkg/httputil"
	"github.com/localmock/localmock/pkg/logging"
	"github.com/localmock/localmock/pkg/requestlog"
	"github.com/localmock/localmock/pkg/stateful"
	"github.com/localmock/localmock/pkg/template"
	"github.com/localmock/localmock/pkg/util"
)

// Control and built-in paths.
const (
	PathReload   = "/__reload"
	PathLogs     = "/__logs"
	PathHealth   = "/__health"
	PathWishlist = "/api/games/wishlist"
	PathGames    = "/api/games"
)

// Handler dispatches requests to static files, control endpoints, the
// built-in stores and configured endpoints.
type Handler struct {
	config   *config.Store
	wishlist *stateful.Wishlist
	requests *requestlog.Store
	tmpl     *template.Engine
	chaos    *chaos.Simulator
	static   *staticRoute
	log      *slog.Logger
	now      func() time.Time
	started  time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTemplateEngine sets the engine used to render response bodies.
func WithTemplateEngine(e *template.Engine) HandlerOption {
	return func(h *Handler) { h.tmpl = e }
}

// WithSimulator sets the latency and failure simulator.
func WithSimulator(s *chaos.Simulator) HandlerOption {
	return func(h *Handler) { h.chaos = s }
}

// WithStatic routes GET requests whose path matches one of patterns to srv.
// Patterns use doublestar syntax; DefaultStaticPatterns is used when none are
// given.
func WithStatic(srv StaticServer, patterns ...string) HandlerOption {
	return func(h *Handler) {
		if len(patterns) == 0 {
			patterns = DefaultStaticPatterns
		}
		h.static = &staticRoute{server: srv, patterns: patterns}
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithClock sets the time source for response and log timestamps.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a Handler over the given stores.
func NewHandler(cfg *config.Store, wishlist *stateful.Wishlist, requests *requestlog.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		config:   cfg,
		wishlist: wishlist,
		requests: requests,
		tmpl:     template.New(),
		chaos:    chaos.NewSimulator(),
		log:      logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.started = h.now()
	return h
}

// ServeHTTP implements the http.Handler interface.
// Note: OPTIONS preflights are answered by CORSMiddleware.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := h.parseRequest(r)

	status := h.route(w, r, req)

	h.logRequest(req.method, req.path, status, time.Since(start))
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request, req *request) int {
	if req.method == http.MethodGet && h.static.matches(req.path) {
		return h.static.server.ServeStatic(w, r, req.path)
	}

	switch req.path {
	case PathReload:
		if req.method == http.MethodPost {
			return h.handleReload(w)
		}
	case PathLogs:
		switch req.method {
		case http.MethodGet:
			return h.handleLogs(w)
		case http.MethodDelete:
			return h.handleClearLogs(w)
		}
	case PathHealth:
		if req.method == http.MethodGet {
			return h.handleHealth(w)
		}
	case PathWishlist:
		switch req.method {
		case http.MethodGet:
			return h.handleWishlistGet(w)
		case http.MethodPost:
			return h.handleWishlistAdd(w, req.param("title"))
		case http.MethodDelete:
			return h.handleWishlistRemove(w, req.param("title"))
		}
	case PathGames:
		switch req.method {
		case http.MethodPost:
			return h.handleGameCreate(w, req.body)
		case http.MethodDelete:
			return h.handleGameDelete(w, req)
		}
	}

	return h.handleConfigured(w, req)
}

// handleConfigured serves a configured endpoint: latency, failure roll, then
// the rendered body with the configured status.
func (h *Handler) handleConfigured(w http.ResponseWriter, req *request) int {
	ep, ok := h.config.FindEndpoint(req.path, req.method)
	if !ok {
		return httputil.WriteNotFound(w, "Endpoint not found")
	}

	fault := chaos.Fault{
		Latency:     time.Duration(ep.LatencyMs) * time.Millisecond,
		FailureRate: ep.FailureRate,
	}
	if err := h.chaos.Apply(fault); err != nil {
		h.log.Debug("simulated failure", "method", req.method, "path", req.path)
		return httputil.WriteInternalError(w, "Simulated failure")
	}

	body := h.tmpl.Render(ep.Response, req.params, h.config)
	return httputil.WriteJSON(w, ep.Status, body)
}

func (h *Handler) logRequest(method, path string, status int, elapsed time.Duration) {
	entry := requestlog.Entry{
		Timestamp: util.ISOTimestamp(h.now()),
		Method:    method,
		Path:      path,
		Status:    status,
		LatencyMs: elapsed.Milliseconds(),
	}
	h.requests.Log(entry)
	h.log.Debug("request handled",
		"method", method,
		"path", path,
		"status", status,
		"latency_ms", entry.LatencyMs,
	)
}

func (h *Handler) timestamp() string {
	return util.ISOTimestamp(h.now())
}

// HTTPHandler returns h wrapped in CORSMiddleware driven by the
// configuration's cors setting.
func (h *Handler) HTTPHandler() http.Handler {
	return NewCORSMiddleware(h, h.config)
}
