package handler

import (
	"net/http"

	"campus-connect-api/internal/middleware"
	"campus-connect-api/internal/model"
	"campus-connect-api/internal/service"
)

// DashboardHandler serves the role-specific landing payloads. Each route sits
// behind RequireAuth plus RequireRole for its role, so reaching a handler
// already proves the caller holds that role.
type DashboardHandler struct {
	service *service.AuthService
}

func NewDashboardHandler(service *service.AuthService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Welcome to your student dashboard")
}

func (h *DashboardHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Welcome to your teacher dashboard")
}

func (h *DashboardHandler) Society(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "Welcome to your society dashboard")
}

func (h *DashboardHandler) serve(w http.ResponseWriter, r *http.Request, greeting string) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	user, err := h.service.UserByID(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"user":     user,
		"greeting": greeting,
	})
}
