package handler

import (
	"net/http"

	"github.com/tombola/api/internal/middleware"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/service"
)

// AdminHandler handles ledger authority endpoints
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Init handles POST /v1/admin - bootstrap the ledger authority.
// Authorization comes from the bootstrap secret in the body, not from a
// token, because no admin exists yet to sign one.
func (h *AdminHandler) Init(w http.ResponseWriter, r *http.Request) {
	var req model.InitAdminRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	settings, err := h.adminService.InitAdmin(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, settings, map[string]string{
		"self": "/v1/admin",
	})
}

// Set handles PUT /v1/admin - hand the authority to another user.
// Only the current authority may do this.
func (h *AdminHandler) Set(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.SetAdminRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	settings, err := h.adminService.SetAdmin(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, settings, map[string]string{
		"self": "/v1/admin",
	})
}

// Get handles GET /v1/admin - report the current authority
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.adminService.Get(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, settings, map[string]string{
		"self": "/v1/admin",
	})
}
