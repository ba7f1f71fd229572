package handler

import (
	"net/http"

	"github.com/tombola/api/internal/middleware"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/service"
)

// EntrantHandler handles entrant registration and settlement endpoints
type EntrantHandler struct {
	entrantService *service.EntrantService
}

// NewEntrantHandler creates a new entrant handler
func NewEntrantHandler(entrantService *service.EntrantService) *EntrantHandler {
	return &EntrantHandler{
		entrantService: entrantService,
	}
}

// Join handles POST /v1/raffles/{raffleId}/entrants - register the caller
// as an entrant of an active raffle
func (h *EntrantHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	entrant, err := h.entrantService.Join(r.Context(), userID, raffleID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, entrant, map[string]string{
		"self":   "/v1/raffles/" + raffleID + "/entrant",
		"raffle": "/v1/raffles/" + raffleID,
	})
}

// Get handles GET /v1/raffles/{raffleId}/entrant - fetch the caller's own
// entrant record
func (h *EntrantHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	entrant, err := h.entrantService.Get(r.Context(), raffleID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, entrant, map[string]string{
		"self":   "/v1/raffles/" + raffleID + "/entrant",
		"raffle": "/v1/raffles/" + raffleID,
	})
}

// GetByUser handles GET /v1/raffles/{raffleId}/entrants/{userId} - public
// read of any entrant record by user ID
func (h *EntrantHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	raffleID := raffleRecordID(r.PathValue("raffleId"))
	userID := r.PathValue("userId")

	entrant, err := h.entrantService.Get(r.Context(), raffleID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, entrant, map[string]string{
		"raffle": "/v1/raffles/" + raffleID,
	})
}

// Settle handles POST /v1/raffles/{raffleId}/claim - pay out the caller's
// refund and reward, then retire their entrant record
func (h *EntrantHandler) Settle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	settlement, err := h.entrantService.Settle(r.Context(), userID, raffleID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, settlement, map[string]string{
		"raffle": "/v1/raffles/" + raffleID,
	})
}
