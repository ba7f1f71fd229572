package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/repository"
)

// Factory creates test entities in the database
type Factory struct {
	db       database.Database
	raffles  *repository.RaffleRepository
	entrants *repository.EntrantRepository
	admin    *repository.AdminRepository
	treasury *repository.TreasuryRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		db:       db,
		raffles:  repository.NewRaffleRepository(db),
		entrants: repository.NewEntrantRepository(db),
		admin:    repository.NewAdminRepository(db),
		treasury: repository.NewTreasuryRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ctx returns a context with timeout
func ctx() context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// Store cancel to prevent leak warning
	_ = cancel
	return c
}

// RaffleOpts customizes raffle creation
type RaffleOpts struct {
	Seed            string
	Price           uint64
	Fee             uint64
	CurrencyID      string
	RewardTickets   uint64
	RewardAmount    uint64
	RewardAssetID   string
	StartTime       time.Time
	EndTime         time.Time
	TicketCap       *uint64
	PerEntrantLimit *uint64
}

// CreateRaffle creates a raffle mid-sale by default: the window opened
// an hour ago and closes in an hour.
func (f *Factory) CreateRaffle(t *testing.T, opts ...func(*RaffleOpts)) *model.Raffle {
	t.Helper()

	now := time.Now().UTC()
	o := &RaffleOpts{
		Seed:          fmt.Sprintf("seed_%s", randomID()),
		Price:         100,
		Fee:           10,
		CurrencyID:    "asset:credits",
		RewardTickets: 1,
		RewardAmount:  50,
		RewardAssetID: "asset:prize",
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
	}
	for _, fn := range opts {
		fn(o)
	}

	raffle := &model.Raffle{
		Seed:            o.Seed,
		Price:           o.Price,
		Fee:             o.Fee,
		CurrencyID:      o.CurrencyID,
		RewardTickets:   o.RewardTickets,
		RewardAmount:    o.RewardAmount,
		RewardAssetID:   o.RewardAssetID,
		StartTime:       o.StartTime,
		EndTime:         o.EndTime,
		TicketCap:       o.TicketCap,
		PerEntrantLimit: o.PerEntrantLimit,
	}
	if err := f.raffles.Create(ctx(), raffle); err != nil {
		t.Fatalf("fixtures: failed to create raffle: %v", err)
	}
	return raffle
}

// WithTicketCap caps the raffle at n tickets
func WithTicketCap(n uint64) func(*RaffleOpts) {
	return func(o *RaffleOpts) { o.TicketCap = &n }
}

// WithWindow sets the sale window
func WithWindow(start, end time.Time) func(*RaffleOpts) {
	return func(o *RaffleOpts) {
		o.StartTime = start
		o.EndTime = end
	}
}

// CreateEntrant registers a user on the raffle and, when tickets > 0,
// records a purchase so the raffle counter and entrant stay consistent.
func (f *Factory) CreateEntrant(t *testing.T, raffle *model.Raffle, tickets uint64) *model.Entrant {
	t.Helper()

	entrant := &model.Entrant{
		UserID:   fmt.Sprintf("user:%s", randomID()),
		RaffleID: raffle.ID,
	}
	if err := f.entrants.Create(ctx(), entrant); err != nil {
		t.Fatalf("fixtures: failed to create entrant: %v", err)
	}

	if tickets > 0 {
		if err := f.raffles.RecordPurchase(ctx(), raffle.ID, entrant.ID, tickets); err != nil {
			t.Fatalf("fixtures: failed to record purchase: %v", err)
		}
		entrant.Tickets = tickets
		raffle.TicketsSold += tickets
	}
	return entrant
}

// SetAdmin registers adminID as the ledger authority
func (f *Factory) SetAdmin(t *testing.T, adminID string) *model.AdminSettings {
	t.Helper()

	settings, err := f.admin.Create(ctx(), adminID)
	if err != nil {
		t.Fatalf("fixtures: failed to set admin: %v", err)
	}
	return settings
}

// FundAccount mints amount of asset to owner
func (f *Factory) FundAccount(t *testing.T, owner, asset string, amount uint64) {
	t.Helper()

	if err := f.treasury.Mint(ctx(), owner, asset, amount); err != nil {
		t.Fatalf("fixtures: failed to fund account: %v", err)
	}
}
