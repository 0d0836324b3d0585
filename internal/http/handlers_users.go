package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/attractions-admin/internal/domain/model"
	"github.com/target/attractions-admin/internal/service"
)

// UserHandlers exposes user management to administrators.
type UserHandlers struct {
	Svc    *service.UserService
	Logger *slog.Logger
}

type usersResponse struct {
	Users []model.DashboardUser `json:"users"`
}

type userActionResponse struct {
	Status  string   `json:"status"`
	UserIDs []string `json:"userId"`
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}
	if users == nil {
		users = []model.DashboardUser{}
	}
	WriteJSON(w, http.StatusOK, usersResponse{Users: users})
}

// EditRoles handles PATCH /api/users/role with {"userId":[...],"role":"Admin"}.
func (h *UserHandlers) EditRoles(w http.ResponseWriter, r *http.Request) {
	var req model.EditRolesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.Svc.EditRoles(r.Context(), req); err != nil {
		h.fail(w, r, "edit roles", err)
		return
	}
	WriteJSON(w, http.StatusOK, userActionResponse{Status: "updated", UserIDs: req.UserIDs})
}

// Delete handles POST /api/users/delete with {"userId":[...]}.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, "deleted", h.Svc.Delete)
}

// Activate handles POST /api/users/activate with {"userId":[...]}.
func (h *UserHandlers) Activate(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, "activated", h.Svc.Activate)
}

func (h *UserHandlers) selection(
	w http.ResponseWriter,
	r *http.Request,
	status string,
	apply func(context.Context, model.UserSelectionRequest) error,
) {
	var req model.UserSelectionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := apply(r.Context(), req); err != nil {
		h.fail(w, r, status+" users", err)
		return
	}
	WriteJSON(w, http.StatusOK, userActionResponse{Status: status, UserIDs: req.UserIDs})
}

func (h *UserHandlers) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(r.Context(), action+" failed", "error", err)
	WriteServiceError(w, err)
}
