// Package scaffold serves the skeleton a developer portal generates for a new service.
package scaffold

import (
	"net/http"

	"github.com/kacper-wojtaszczyk/idp-demo/internal/api"
)

// Handler holds the values substituted into the skeleton at generation time.
type Handler struct {
	name        string
	description string
}

// NewHandler creates a new Handler.
func NewHandler(name, description string) *Handler {
	return &Handler{name: name, description: description}
}

// RegisterRoutes attaches all routes to the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("/", h.handleNotFound)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: h.name})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, rootResponse{Service: h.name, Description: h.description})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusNotFound, api.NotFoundResponse{Error: "Not Found", Path: api.RequestTarget(r)})
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type rootResponse struct {
	Service     string `json:"service"`
	Description string `json:"description"`
}
