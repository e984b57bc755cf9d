package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/api"
	"github.com/kacper-wojtaszczyk/idp-demo/internal/logging"
)

var checkout = api.Info{Service: "checkout", Version: "2.3.1", Environment: "development"}

func newHandler(t *testing.T, opts ...api.Option) (*api.Handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.Identity{
		Service:     checkout.Service,
		Version:     checkout.Version,
		Environment: checkout.Environment,
	})
	return api.NewHandler(checkout, logger, time.Now(), opts...), &buf
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v (%q)", err, w.Body.String())
	}
	return body
}

func TestHealthHandler(t *testing.T) {
	h, _ := newHandler(t)

	for _, target := range []string{"/health", "/healthz"} {
		w := serve(h, "GET", target)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", target, w.Code)
		}
		body := decode(t, w)
		if body["status"] != "ok" {
			t.Errorf("%s: expected status ok, got %v", target, body["status"])
		}
		uptime, ok := body["uptime"].(float64)
		if !ok || uptime < 0 {
			t.Errorf("%s: expected non-negative uptime, got %v", target, body["uptime"])
		}
	}
}

func TestHealthHandler_AnyMethod(t *testing.T) {
	h, _ := newHandler(t)

	w := serve(h, "POST", "/healthz")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestHealthHandler_Uptime(t *testing.T) {
	started := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	now := started.Add(1500 * time.Millisecond)
	h := api.NewHandler(checkout, slog.New(slog.NewJSONHandler(io.Discard, nil)), started,
		api.WithClock(func() time.Time { return now }))

	body := decode(t, serve(h, "GET", "/health"))
	if body["uptime"] != 1.5 {
		t.Errorf("expected uptime 1.5, got %v", body["uptime"])
	}
}

func TestReadyHandler(t *testing.T) {
	h, _ := newHandler(t)

	for _, target := range []string{"/ready", "/readyz"} {
		w := serve(h, "GET", target)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected status 503 before warm-up, got %d", target, w.Code)
		}
		if body := decode(t, w); body["status"] != "not ready" {
			t.Errorf("%s: expected not ready, got %v", target, body["status"])
		}
	}

	h.MarkReady()

	for _, target := range []string{"/ready", "/readyz"} {
		w := serve(h, "GET", target)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status 200 after warm-up, got %d", target, w.Code)
		}
		if body := decode(t, w); body["status"] != "ready" {
			t.Errorf("%s: expected ready, got %v", target, body["status"])
		}
	}
}

func TestRootHandler_FirstRequest(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 30, 0, 123_000_000, time.UTC)
	h, _ := newHandler(t, api.WithClock(func() time.Time { return now }))

	w := serve(h, "GET", "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decode(t, w)
	want := map[string]any{
		"service":      "checkout",
		"version":      "2.3.1",
		"environment":  "development",
		"message":      "Hello from checkout! Deployed via IDP 🚀",
		"requestCount": float64(1),
		"timestamp":    "2025-03-12T10:30:00.123Z",
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("field %q: expected %v, got %v", k, v, body[k])
		}
	}
	if len(body) != len(want) {
		t.Errorf("expected %d fields, got %v", len(want), body)
	}
	if !strings.Contains(w.Body.String(), "\n  \"service\": \"checkout\"") {
		t.Errorf("expected two-space indented body, got %q", w.Body.String())
	}
}

func TestRootHandler_CountsEveryRequest(t *testing.T) {
	h, _ := newHandler(t)

	serve(h, "GET", "/health")
	serve(h, "GET", "/ready")
	serve(h, "GET", "/missing")

	var last float64
	for i := range 3 {
		body := decode(t, serve(h, "GET", "/"))
		count, _ := body["requestCount"].(float64)
		if want := float64(4 + i); count != want {
			t.Errorf("expected requestCount %v, got %v", want, count)
		}
		if count <= last {
			t.Errorf("requestCount did not increase: %v after %v", count, last)
		}
		last = count
	}
}

func TestRootHandler_NonGETFallsThrough(t *testing.T) {
	h, _ := newHandler(t)

	for _, method := range []string{"POST", "PUT", "DELETE", "HEAD"} {
		w := serve(h, method, "/")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s /: expected status 404, got %d", method, w.Code)
		}
	}

	body := decode(t, serve(h, "POST", "/"))
	if body["error"] != "Not Found" || body["path"] != "/" {
		t.Errorf("unexpected not found body: %v", body)
	}
}

func TestNotFoundHandler(t *testing.T) {
	h, _ := newHandler(t)

	targets := []string{"/missing", "/health?x=1", "/healthz/", "/ready?probe=1", "/?q=1", "/api/v1/items"}
	for _, target := range targets {
		w := serve(h, "GET", target)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", target, w.Code)
		}

		var body api.NotFoundResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: body is not JSON: %v", target, err)
		}
		if body != (api.NotFoundResponse{Error: "Not Found", Path: target}) {
			t.Errorf("%s: unexpected body %+v", target, body)
		}
	}
}

func TestNotFoundHandler_ExactBody(t *testing.T) {
	h, _ := newHandler(t)

	w := serve(h, "GET", "/missing?x=1")
	if got, want := w.Body.String(), `{"error":"Not Found","path":"/missing?x=1"}`; got != want {
		t.Errorf("expected body %q, got %q", want, got)
	}

	w = serve(h, "GET", "/ready")
	if got, want := w.Body.String(), `{"status":"not ready"}`; got != want {
		t.Errorf("expected body %q, got %q", want, got)
	}
}

func TestRootHandler_Logs(t *testing.T) {
	h, buf := newHandler(t)

	serve(h, "GET", "/health")
	serve(h, "GET", "/ready")
	serve(h, "GET", "/missing")
	if buf.Len() != 0 {
		t.Fatalf("expected no log lines for non-root routes, got %q", buf.String())
	}

	serve(h.Routes(), "GET", "/")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if line["message"] != "Request handled" {
		t.Errorf("unexpected message: %v", line["message"])
	}
	if line["method"] != "GET" || line["url"] != "/" {
		t.Errorf("unexpected method/url: %v %v", line["method"], line["url"])
	}
	if d, ok := line["duration"].(float64); !ok || d < 0 {
		t.Errorf("expected non-negative duration, got %v", line["duration"])
	}
	if line["request_id"] == nil {
		t.Error("expected request_id on the log line")
	}
}

func TestRoutes_RequestID(t *testing.T) {
	h, _ := newHandler(t)
	routes := h.Routes()

	w := serve(routes, "GET", "/health")
	id, err := uuid.Parse(w.Header().Get(api.RequestIDHeader))
	if err != nil {
		t.Fatalf("expected generated UUID request id, got %q", w.Header().Get(api.RequestIDHeader))
	}
	if id.Version() != uuid.Version(7) {
		t.Errorf("expected UUIDv7, got v%d", id.Version())
	}

	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	routes.ServeHTTP(w, req)
	if got := w.Header().Get(api.RequestIDHeader); got != "abc-123" {
		t.Errorf("expected inbound request id to be echoed, got %q", got)
	}
}

func TestHandler_ConcurrentRequests(t *testing.T) {
	h, _ := newHandler(t)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			serve(h, "GET", "/health")
		})
	}
	wg.Wait()

	if got := h.Requests(); got != 50 {
		t.Errorf("expected 50 requests counted, got %d", got)
	}
}
