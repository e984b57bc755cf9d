package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/logging"
)

// Info identifies the running service in responses.
type Info struct {
	Service     string
	Version     string
	Environment string
}

// Handler holds the per-process state shared by all routes: the request
// counter and the readiness flag.
type Handler struct {
	info    Info
	logger  *slog.Logger
	started time.Time
	now     func() time.Time
	routes  []route

	requests atomic.Int64
	ready    atomic.Bool
}

// Option customizes a Handler.
type Option func(*Handler)

// WithClock replaces time.Now, used for uptime, timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates a Handler. started is the process start time uptime is measured from.
func NewHandler(info Info, logger *slog.Logger, started time.Time, opts ...Option) *Handler {
	h := &Handler{
		info:    info,
		logger:  logger,
		started: started,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Evaluated in order, first match wins. A method mismatch on / falls
	// through to the not found response.
	h.routes = []route{
		{match: targetIn("/health", "/healthz"), handle: h.handleHealth},
		{match: targetIn("/ready", "/readyz"), handle: h.handleReady},
		{match: all(targetIn("/"), methodIs(http.MethodGet)), handle: h.handleRoot},
	}

	return h
}

// Routes returns the handler wrapped in its middleware chain.
func (h *Handler) Routes() http.Handler {
	return chi.Chain(middleware.Recoverer, RequestID).Handler(h)
}

// MarkReady flips the readiness flag. It never reverts.
func (h *Handler) MarkReady() {
	h.ready.Store(true)
}

// Ready reports whether the service accepts traffic.
func (h *Handler) Ready() bool {
	return h.ready.Load()
}

// Requests returns the number of requests received so far.
func (h *Handler) Requests() int64 {
	return h.requests.Load()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := &request{
		Request: r,
		target:  RequestTarget(r),
		count:   h.requests.Add(1),
		start:   h.now(),
	}

	for _, rt := range h.routes {
		if rt.match(req) {
			rt.handle(w, req)
			return
		}
	}

	h.handleNotFound(w, req)
}

func (h *Handler) handleHealth(w http.ResponseWriter, req *request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: h.now().Sub(h.started).Seconds(),
	})
}

func (h *Handler) handleReady(w http.ResponseWriter, req *request) {
	if !h.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not ready"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}

func (h *Handler) handleRoot(w http.ResponseWriter, req *request) {
	writeIndentedJSON(w, http.StatusOK, rootResponse{
		Service:      h.info.Service,
		Version:      h.info.Version,
		Environment:  h.info.Environment,
		Message:      fmt.Sprintf("Hello from %s! Deployed via IDP 🚀", h.info.Service),
		RequestCount: req.count,
		Timestamp:    h.now().UTC().Format(logging.TimestampLayout),
	})

	attrs := []any{
		"method", req.Method,
		"url", req.target,
		"duration", h.now().Sub(req.start).Milliseconds(),
	}
	if id := RequestIDFromContext(req.Context()); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	h.logger.InfoContext(req.Context(), "Request handled", attrs...)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, req *request) {
	writeJSON(w, http.StatusNotFound, NotFoundResponse{Error: "Not Found", Path: req.target})
}
