package model

import "time"

// CreateRaffleRequest represents a request to create a raffle.
// Timestamps are RFC 3339. Fee defaults to zero when omitted; a nil
// TicketCap or PerEntrantLimit means unlimited.
type CreateRaffleRequest struct {
	Seed            string  `json:"seed,omitempty"`
	Price           uint64  `json:"price"`
	Fee             *uint64 `json:"fee,omitempty"`
	CurrencyID      string  `json:"currency_id"`
	RewardTickets   uint64  `json:"reward_tickets"`
	RewardAmount    uint64  `json:"reward_amount"`
	RewardAssetID   string  `json:"reward_asset_id"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	TicketCap       *uint64 `json:"ticket_cap,omitempty"`
	PerEntrantLimit *uint64 `json:"per_entrant_limit,omitempty"`
}

// Validate checks structural validity of the request. Ledger rules
// (fee < price, time ordering against the clock) are enforced by the
// service; this catches malformed input before it reaches the engine.
func (r *CreateRaffleRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Price == 0 {
		errs = append(errs, FieldError{Field: "price", Message: "price is required"})
	}
	if r.CurrencyID == "" {
		errs = append(errs, FieldError{Field: "currency_id", Message: "currency_id is required"})
	}
	if r.RewardAssetID == "" {
		errs = append(errs, FieldError{Field: "reward_asset_id", Message: "reward_asset_id is required"})
	}
	if r.StartTime == "" {
		errs = append(errs, FieldError{Field: "start_time", Message: "start_time is required"})
	} else if _, err := time.Parse(time.RFC3339, r.StartTime); err != nil {
		errs = append(errs, FieldError{Field: "start_time", Message: "must be RFC 3339"})
	}
	if r.EndTime == "" {
		errs = append(errs, FieldError{Field: "end_time", Message: "end_time is required"})
	} else if _, err := time.Parse(time.RFC3339, r.EndTime); err != nil {
		errs = append(errs, FieldError{Field: "end_time", Message: "must be RFC 3339"})
	}

	return errs
}

// BuyTicketsRequest represents a ticket purchase.
type BuyTicketsRequest struct {
	Quantity uint64 `json:"quantity"`
}

// Validate checks the purchase quantity.
func (r *BuyTicketsRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Quantity == 0 {
		errs = append(errs, FieldError{Field: "quantity", Message: "quantity must be at least 1"})
	}
	return errs
}

// SetRewardRequest represents a reward allocation for one entrant.
// Rewards may legitimately be zero: that records "no reward" for the
// entrant while still marking allocation as done.
type SetRewardRequest struct {
	UserID  string `json:"user_id"`
	Rewards uint64 `json:"rewards"`
}

// Validate checks the allocation target.
func (r *SetRewardRequest) Validate() []FieldError {
	var errs []FieldError
	if r.UserID == "" {
		errs = append(errs, FieldError{Field: "user_id", Message: "user_id is required"})
	}
	return errs
}

// InitAdminRequest bootstraps the admin registry. The bootstrap secret
// is the deploy-time authority; it is verified against a hash from
// configuration, never stored.
type InitAdminRequest struct {
	BootstrapSecret string `json:"bootstrap_secret"`
	AdminID         string `json:"admin_id"`
}

// Validate checks required fields.
func (r *InitAdminRequest) Validate() []FieldError {
	var errs []FieldError
	if r.BootstrapSecret == "" {
		errs = append(errs, FieldError{Field: "bootstrap_secret", Message: "bootstrap_secret is required"})
	}
	if r.AdminID == "" {
		errs = append(errs, FieldError{Field: "admin_id", Message: "admin_id is required"})
	}
	return errs
}

// SetAdminRequest rotates the admin identity.
type SetAdminRequest struct {
	AdminID string `json:"admin_id"`
}

// Validate checks required fields.
func (r *SetAdminRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AdminID == "" {
		errs = append(errs, FieldError{Field: "admin_id", Message: "admin_id is required"})
	}
	return errs
}
