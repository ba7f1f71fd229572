package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tombola/api/internal/middleware"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/monitoring"
	"github.com/tombola/api/internal/service"
)

// RaffleHandler handles raffle lifecycle endpoints
type RaffleHandler struct {
	raffleService *service.RaffleService
}

// NewRaffleHandler creates a new raffle handler
func NewRaffleHandler(raffleService *service.RaffleService) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
	}
}

// raffleRecordID normalizes a path segment into a raffle record id.
// Clients may send either the bare key or the full "raffle:key" form.
func raffleRecordID(v string) string {
	if strings.Contains(v, ":") {
		return v
	}
	return "raffle:" + v
}

// Create handles POST /v1/raffles - configure a new raffle (admin only)
func (h *RaffleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateRaffleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	raffle, err := h.raffleService.Create(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	monitoring.RafflesCreated.Inc()
	WriteData(w, http.StatusCreated, raffle, map[string]string{
		"self": "/v1/raffles/" + raffle.ID,
	})
}

// Get handles GET /v1/raffles/{raffleId} - fetch a raffle with its derived state
func (h *RaffleHandler) Get(w http.ResponseWriter, r *http.Request) {
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	raffle, err := h.raffleService.GetByID(r.Context(), raffleID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, raffle, map[string]string{
		"self": "/v1/raffles/" + raffle.ID,
	})
}

// List handles GET /v1/raffles - list raffles, newest first
func (h *RaffleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, _ = strconv.Atoi(v)
	}
	// Mirror the service's clamping so the reported window matches the
	// query that actually ran.
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	raffles, err := h.raffleService.List(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	pagination := &PaginationInfo{
		Limit:   limit,
		Offset:  offset,
		HasMore: len(raffles) == limit,
	}
	WriteCollection(w, http.StatusOK, raffles, pagination, map[string]string{
		"self": "/v1/raffles",
	})
}

// BuyTickets handles POST /v1/raffles/{raffleId}/tickets - purchase tickets
func (h *RaffleHandler) BuyTickets(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	var req model.BuyTicketsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	entrant, err := h.raffleService.BuyTickets(r.Context(), userID, raffleID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	monitoring.TicketsSold.Add(float64(req.Quantity))
	WriteData(w, http.StatusOK, entrant, map[string]string{
		"self":   "/v1/raffles/" + raffleID + "/entrant",
		"raffle": "/v1/raffles/" + raffleID,
	})
}

// SetReward handles POST /v1/raffles/{raffleId}/rewards - allocate reward
// tickets to an entrant (admin only)
func (h *RaffleHandler) SetReward(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	var req model.SetRewardRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	entrant, err := h.raffleService.SetReward(r.Context(), userID, raffleID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	monitoring.RewardsAllocated.Add(float64(req.Rewards))
	WriteData(w, http.StatusOK, entrant, map[string]string{
		"raffle": "/v1/raffles/" + raffleID,
	})
}

// ClaimProceeds handles POST /v1/raffles/{raffleId}/proceeds - transfer the
// authority's share of the pool to the caller (admin only)
func (h *RaffleHandler) ClaimProceeds(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	amount, err := h.raffleService.ClaimProceeds(r.Context(), userID, raffleID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]uint64{"amount": amount}, map[string]string{
		"raffle": "/v1/raffles/" + raffleID,
	})
}

// Close handles DELETE /v1/raffles/{raffleId} - destroy a fully settled raffle
// (admin only)
func (h *RaffleHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}
	raffleID := raffleRecordID(r.PathValue("raffleId"))

	if err := h.raffleService.Close(r.Context(), userID, raffleID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	monitoring.RafflesClosed.Inc()
	WriteNoContent(w)
}
