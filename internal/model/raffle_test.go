package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

func uptr(v uint64) *uint64 { return &v }

func testRaffle() *Raffle {
	return &Raffle{
		ID:            "raffle:abc",
		Price:         100,
		Fee:           10,
		CurrencyID:    "currency:usd",
		RewardTickets: 1,
		RewardAmount:  50,
		RewardAssetID: "asset:prize",
		StartTime:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		TicketCap:     uptr(2),
	}
}

// ============================================================================
// Lifecycle assertion tests
// ============================================================================

func TestAssertActive_BeforeStart(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	now := r.StartTime.Add(-time.Hour)

	if err := r.AssertActive(now); !errors.Is(err, ErrRaffleNotStarted) {
		t.Errorf("expected ErrRaffleNotStarted, got %v", err)
	}
}

func TestAssertActive_AtStart(t *testing.T) {
	t.Parallel()

	r := testRaffle()

	if err := r.AssertActive(r.StartTime); err != nil {
		t.Errorf("expected active at start time, got %v", err)
	}
}

func TestAssertActive_AtEnd(t *testing.T) {
	t.Parallel()

	r := testRaffle()

	if err := r.AssertActive(r.EndTime); !errors.Is(err, ErrRaffleEnded) {
		t.Errorf("expected ErrRaffleEnded at end time, got %v", err)
	}
}

func TestAssertActive_SoldOut(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketsSold = *r.TicketCap

	if err := r.AssertActive(r.StartTime); !errors.Is(err, ErrRaffleSoldOut) {
		t.Errorf("expected ErrRaffleSoldOut, got %v", err)
	}
}

func TestAssertActive_UncappedNeverSellsOut(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketCap = nil
	r.TicketsSold = math.MaxUint64

	if err := r.AssertActive(r.StartTime); err != nil {
		t.Errorf("uncapped raffle should stay active, got %v", err)
	}
}

func TestAssertEnded_ByTime(t *testing.T) {
	t.Parallel()

	r := testRaffle()

	if err := r.AssertEnded(r.StartTime); !errors.Is(err, ErrRaffleStillActive) {
		t.Errorf("expected ErrRaffleStillActive before end, got %v", err)
	}
	if err := r.AssertEnded(r.EndTime); err != nil {
		t.Errorf("expected ended at end time, got %v", err)
	}
}

func TestAssertEnded_BySellout(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketsSold = *r.TicketCap

	if err := r.AssertEnded(r.StartTime); err != nil {
		t.Errorf("sold out raffle should count as ended, got %v", err)
	}
}

func TestAssertAwarded(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketsSold = 2
	now := r.EndTime

	if err := r.AssertAwarded(now); !errors.Is(err, ErrRaffleRewardsNotSet) {
		t.Errorf("expected ErrRaffleRewardsNotSet, got %v", err)
	}

	r.RewardsAwarded = 1 // ceiling = min(1, 2)
	if err := r.AssertAwarded(now); err != nil {
		t.Errorf("expected awarded, got %v", err)
	}
}

func TestAssertAwarded_UndersoldCeiling(t *testing.T) {
	t.Parallel()

	// 5 reward tickets configured but only 3 sold: ceiling drops to 3.
	r := testRaffle()
	r.RewardTickets = 5
	r.TicketCap = nil
	r.TicketsSold = 3
	now := r.EndTime

	if got := r.RewardCeiling(); got != 3 {
		t.Fatalf("RewardCeiling() = %d, want 3", got)
	}

	r.RewardsAwarded = 3
	if err := r.AssertAwarded(now); err != nil {
		t.Errorf("expected awarded with undersold ceiling, got %v", err)
	}
}

func TestAssertClaimable(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketsSold = 2
	r.RewardsAwarded = 1
	now := r.EndTime

	if err := r.AssertClaimable(now); err != nil {
		t.Errorf("expected claimable, got %v", err)
	}

	r.AdminClaimed = true
	if err := r.AssertClaimable(now); !errors.Is(err, ErrRaffleAdminAlreadyClaimed) {
		t.Errorf("expected ErrRaffleAdminAlreadyClaimed, got %v", err)
	}
}

func TestAssertCloseable(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketsSold = 2
	r.RewardsAwarded = 1
	now := r.EndTime

	if err := r.AssertCloseable(now); !errors.Is(err, ErrRaffleAdminNotClaimed) {
		t.Errorf("expected ErrRaffleAdminNotClaimed, got %v", err)
	}

	r.AdminClaimed = true
	if err := r.AssertCloseable(now); !errors.Is(err, ErrRaffleRewardsNotClaimed) {
		t.Errorf("expected ErrRaffleRewardsNotClaimed, got %v", err)
	}

	r.RewardsClaimed = 1
	if err := r.AssertCloseable(now); err != nil {
		t.Errorf("expected closeable, got %v", err)
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	r := testRaffle()

	if got := r.State(r.StartTime.Add(-time.Hour)); got != RaffleStatePending {
		t.Errorf("State before start = %q, want pending", got)
	}
	if got := r.State(r.StartTime); got != RaffleStateActive {
		t.Errorf("State in window = %q, want active", got)
	}

	r.TicketsSold = 2
	if got := r.State(r.StartTime); got != RaffleStateEnded {
		t.Errorf("State after sellout = %q, want ended", got)
	}

	r.RewardsAwarded = 1
	if got := r.State(r.StartTime); got != RaffleStateAwarded {
		t.Errorf("State after allocation = %q, want awarded", got)
	}

	r.AdminClaimed = true
	if got := r.State(r.StartTime); got != RaffleStateAdminClaimed {
		t.Errorf("State after claim = %q, want admin_claimed", got)
	}
}

// ============================================================================
// Settlement arithmetic tests
// ============================================================================

func TestRefundableProceeds(t *testing.T) {
	t.Parallel()

	r := testRaffle()

	got, err := r.RefundableProceeds(1)
	if err != nil {
		t.Fatalf("RefundableProceeds(1) error: %v", err)
	}
	if got != 90 {
		t.Errorf("RefundableProceeds(1) = %d, want 90", got)
	}

	got, err = r.RefundableProceeds(0)
	if err != nil || got != 0 {
		t.Errorf("RefundableProceeds(0) = %d, %v, want 0, nil", got, err)
	}
}

func TestRefundableProceeds_FeeDecompositionExact(t *testing.T) {
	t.Parallel()

	// refundable + fee*tickets == price*tickets for any ticket count.
	r := testRaffle()
	for _, tickets := range []uint64{0, 1, 2, 7, 1000} {
		refund, err := r.RefundableProceeds(tickets)
		if err != nil {
			t.Fatalf("RefundableProceeds(%d) error: %v", tickets, err)
		}
		if refund+r.Fee*tickets != r.Price*tickets {
			t.Errorf("decomposition broken for %d tickets: %d + %d != %d",
				tickets, refund, r.Fee*tickets, r.Price*tickets)
		}
	}
}

func TestRefundableProceeds_Overflow(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.Price = math.MaxUint64

	if _, err := r.RefundableProceeds(2); !errors.Is(err, ErrInvalidCalculation) {
		t.Errorf("expected ErrInvalidCalculation, got %v", err)
	}
}

func TestRewardPayout(t *testing.T) {
	t.Parallel()

	r := testRaffle()

	got, err := r.RewardPayout(1)
	if err != nil || got != 50 {
		t.Errorf("RewardPayout(1) = %d, %v, want 50, nil", got, err)
	}

	r.RewardAmount = math.MaxUint64
	if _, err := r.RewardPayout(2); !errors.Is(err, ErrInvalidCalculation) {
		t.Errorf("expected ErrInvalidCalculation, got %v", err)
	}
}

func TestAuthorityProceeds(t *testing.T) {
	t.Parallel()

	// 2 sold, 1 rewarded: full price for the rewarded ticket plus the
	// fee on the refundable one.
	r := testRaffle()
	r.TicketsSold = 2
	r.RewardsAwarded = 1

	got, err := r.AuthorityProceeds()
	if err != nil {
		t.Fatalf("AuthorityProceeds() error: %v", err)
	}
	if want := uint64(1*100 + 1*10); got != want {
		t.Errorf("AuthorityProceeds() = %d, want %d", got, want)
	}
}

func TestAuthorityProceeds_NoRewards(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.TicketsSold = 2
	r.RewardsAwarded = 0

	got, err := r.AuthorityProceeds()
	if err != nil {
		t.Fatalf("AuthorityProceeds() error: %v", err)
	}
	if want := uint64(2 * 10); got != want {
		t.Errorf("AuthorityProceeds() = %d, want %d", got, want)
	}
}

func TestAuthorityProceeds_Overflow(t *testing.T) {
	t.Parallel()

	r := testRaffle()
	r.Price = math.MaxUint64
	r.TicketsSold = 2
	r.RewardsAwarded = 2

	if _, err := r.AuthorityProceeds(); !errors.Is(err, ErrInvalidCalculation) {
		t.Errorf("expected ErrInvalidCalculation, got %v", err)
	}
}
