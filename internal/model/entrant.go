package model

import (
	"time"

	"github.com/tombola/api/pkg/checked"
)

// Entrant represents one user's participation in one raffle. The record
// is created on first interaction and destroyed when the user claims
// settlement, which is what makes settlement idempotent: a settled
// entrant cannot be processed again because it no longer exists.
type Entrant struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	RaffleID string `json:"raffle_id"`
	// Tickets is the number of tickets purchased so far.
	Tickets uint64 `json:"tickets"`
	// Rewards is the number of this entrant's tickets designated as
	// reward tickets. Set exactly once, after the raffle ends.
	Rewards uint64 `json:"rewards"`
	// Awarded records that allocation happened, so that allocating
	// zero rewards is distinguishable from not yet being allocated.
	Awarded bool `json:"awarded"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Settlement summarizes what an entrant received when their record was
// closed out.
type Settlement struct {
	RaffleID        string `json:"raffle_id"`
	UserID          string `json:"user_id"`
	RefundedTickets uint64 `json:"refunded_tickets"`
	RefundAmount    uint64 `json:"refund_amount"`
	RewardTickets   uint64 `json:"reward_tickets"`
	RewardPayout    uint64 `json:"reward_payout"`
}

// AssertNotAwarded verifies that reward allocation has not happened for
// this entrant yet. Allocation is a one-time action.
func (e *Entrant) AssertNotAwarded() error {
	if e.Awarded {
		return ErrEntrantAlreadyAwarded
	}
	return nil
}

// RefundableTickets is the number of tickets whose price (minus fee) is
// returned to the entrant at settlement: purchased minus rewarded.
func (e *Entrant) RefundableTickets() (uint64, error) {
	refundable, ok := checked.Sub(e.Tickets, e.Rewards)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	return refundable, nil
}
