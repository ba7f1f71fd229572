package model

import (
	"time"

	"github.com/tombola/api/pkg/checked"
)

// Raffle represents a single raffle: its sale configuration and the
// running counters that drive the lifecycle state machine. The lifecycle
// is never stored; it is derived from the counters and the clock on
// every operation.
type Raffle struct {
	ID string `json:"id"`
	// Seed is the derivation key the raffle record and its proceeds
	// pool are addressed under. Caller-supplied or generated at
	// creation.
	Seed string `json:"seed"`
	// Price is the cost of one ticket in the raffle currency.
	Price uint64 `json:"price"`
	// Fee is the non-refundable portion of Price. Always < Price.
	Fee        uint64 `json:"fee"`
	CurrencyID string `json:"currency_id"`
	// RewardTickets is the number of tickets entitled to a reward.
	RewardTickets uint64 `json:"reward_tickets"`
	// RewardAmount is the quantity of the reward asset minted per
	// rewarded ticket.
	RewardAmount  uint64    `json:"reward_amount"`
	RewardAssetID string    `json:"reward_asset_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	// TicketCap limits total tickets sold; nil means unlimited.
	TicketCap *uint64 `json:"ticket_cap,omitempty"`
	// PerEntrantLimit limits tickets per entrant; nil means unlimited.
	PerEntrantLimit *uint64 `json:"per_entrant_limit,omitempty"`
	TicketsSold     uint64  `json:"tickets_sold"`
	RewardsAwarded  uint64  `json:"rewards_awarded"`
	RewardsClaimed  uint64  `json:"rewards_claimed"`
	AdminClaimed    bool    `json:"admin_claimed"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RaffleWithState is the read view of a raffle: the record plus its
// derived lifecycle state at the time of the read.
type RaffleWithState struct {
	Raffle
	State RaffleState `json:"state"`
}

// RaffleState is the derived lifecycle state, exposed on reads for
// clients. It is never persisted.
type RaffleState string

const (
	RaffleStatePending      RaffleState = "pending"
	RaffleStateActive       RaffleState = "active"
	RaffleStateEnded        RaffleState = "ended"
	RaffleStateAwarded      RaffleState = "awarded"
	RaffleStateAdminClaimed RaffleState = "admin_claimed"
)

// State derives the current lifecycle state from the counters and now.
// The terminal Closed state has no representation: a closed raffle's
// record no longer exists.
func (r *Raffle) State(now time.Time) RaffleState {
	if r.AssertEnded(now) != nil {
		if now.Before(r.StartTime) {
			return RaffleStatePending
		}
		return RaffleStateActive
	}
	if r.RewardsAwarded != r.RewardCeiling() {
		return RaffleStateEnded
	}
	if !r.AdminClaimed {
		return RaffleStateAwarded
	}
	return RaffleStateAdminClaimed
}

// SoldOut reports whether a ticket cap exists and has been reached.
func (r *Raffle) SoldOut() bool {
	return r.TicketCap != nil && r.TicketsSold == *r.TicketCap
}

// RewardCeiling is the total number of reward tickets that can be
// allocated: the configured reward count, bounded by tickets actually
// sold when the raffle ends undersold.
func (r *Raffle) RewardCeiling() uint64 {
	if r.TicketsSold < r.RewardTickets {
		return r.TicketsSold
	}
	return r.RewardTickets
}

// AssertActive verifies that tickets may be sold right now: the sale
// window is open and the raffle is not sold out.
func (r *Raffle) AssertActive(now time.Time) error {
	if now.Before(r.StartTime) {
		return ErrRaffleNotStarted
	}
	if !now.Before(r.EndTime) {
		return ErrRaffleEnded
	}
	if r.SoldOut() {
		return ErrRaffleSoldOut
	}
	return nil
}

// AssertEnded verifies that the sale is over, either because the end
// time passed or because every ticket sold.
func (r *Raffle) AssertEnded(now time.Time) error {
	if now.Before(r.EndTime) && !r.SoldOut() {
		return ErrRaffleStillActive
	}
	return nil
}

// AssertAwarded verifies that the sale is over and reward allocation is
// complete, i.e. the awarded total has reached the reward ceiling.
func (r *Raffle) AssertAwarded(now time.Time) error {
	if err := r.AssertEnded(now); err != nil {
		return err
	}
	if r.RewardsAwarded != r.RewardCeiling() {
		return ErrRaffleRewardsNotSet
	}
	return nil
}

// AssertClaimable verifies that the admin may claim the authority
// proceeds: allocation complete and not yet claimed.
func (r *Raffle) AssertClaimable(now time.Time) error {
	if err := r.AssertAwarded(now); err != nil {
		return err
	}
	if r.AdminClaimed {
		return ErrRaffleAdminAlreadyClaimed
	}
	return nil
}

// AssertCloseable verifies that the raffle may be destroyed: proceeds
// claimed and every awarded reward ticket claimed by its entrant.
func (r *Raffle) AssertCloseable(now time.Time) error {
	if err := r.AssertAwarded(now); err != nil {
		return err
	}
	if !r.AdminClaimed {
		return ErrRaffleAdminNotClaimed
	}
	if r.RewardsClaimed != r.RewardsAwarded {
		return ErrRaffleRewardsNotClaimed
	}
	return nil
}

// RewardPayout computes the reward asset quantity minted for the given
// number of reward tickets.
func (r *Raffle) RewardPayout(rewardTickets uint64) (uint64, error) {
	amount, ok := checked.Mul(r.RewardAmount, rewardTickets)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	return amount, nil
}

// RefundableProceeds computes the currency amount returned to an
// entrant for the given number of non-rewarded tickets: the full price
// minus the non-refundable fee, per ticket.
func (r *Raffle) RefundableProceeds(tickets uint64) (uint64, error) {
	gross, ok := checked.Mul(r.Price, tickets)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	fees, ok := checked.Mul(r.Fee, tickets)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	net, ok := checked.Sub(gross, fees)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	return net, nil
}

// AuthorityProceeds computes the admin's non-refundable take: the full
// price of every rewarded ticket plus the fee on every non-rewarded
// ticket.
func (r *Raffle) AuthorityProceeds() (uint64, error) {
	rewarded, ok := checked.Mul(r.Price, r.RewardsAwarded)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	refundable, ok := checked.Sub(r.TicketsSold, r.RewardsAwarded)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	fees, ok := checked.Mul(r.Fee, refundable)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	total, ok := checked.Add(rewarded, fees)
	if !ok {
		return 0, ErrInvalidCalculation
	}
	return total, nil
}
