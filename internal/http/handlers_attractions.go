package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/attractions-admin/internal/domain/model"
	"github.com/target/attractions-admin/internal/service"
)

// AttractionHandlers proxies attraction reads and edits to the backend.
type AttractionHandlers struct {
	Svc    *service.AttractionService
	Logger *slog.Logger
}

func (h *AttractionHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Get handles GET /api/attractions/{id}.
func (h *AttractionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger().DebugContext(r.Context(), "get attraction failed", "id", r.PathValue("id"), "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a)
}

// Create handles POST /api/attractions.
func (h *AttractionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.AttractionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		h.logger().WarnContext(r.Context(), "create attraction failed", "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, a)
}

// Update handles PUT /api/attractions/{id}.
func (h *AttractionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.AttractionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.logger().WarnContext(r.Context(), "update attraction failed", "id", r.PathValue("id"), "error", err)
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a)
}
