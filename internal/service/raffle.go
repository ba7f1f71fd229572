package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/pkg/checked"
)

// RaffleRepository defines the interface for raffle record storage
type RaffleRepository interface {
	Create(ctx context.Context, raffle *model.Raffle) error
	GetByID(ctx context.Context, id string) (*model.Raffle, error)
	GetBySeed(ctx context.Context, seed string) (*model.Raffle, error)
	List(ctx context.Context, limit, offset int) ([]*model.Raffle, error)
	RecordPurchase(ctx context.Context, raffleID, entrantID string, quantity uint64) error
	RecordAllocation(ctx context.Context, raffleID, entrantID string, rewards uint64) error
	SettleEntrant(ctx context.Context, raffleID, entrantID string, rewards uint64) error
	MarkAdminClaimed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, raffle *model.Raffle) error
}

// Treasury defines the interface for the value transfer collaborator.
// Proceeds pools are treasury accounts owned by the raffle record ID.
type Treasury interface {
	EnsureAccount(ctx context.Context, owner, asset string) error
	Transfer(ctx context.Context, from, to, asset string, amount uint64) error
	Mint(ctx context.Context, to, asset string, amount uint64) error
	Burn(ctx context.Context, from, asset string, amount uint64) error
	Balance(ctx context.Context, owner, asset string) (uint64, error)
	CloseAccount(ctx context.Context, owner, asset string) error
}

// RaffleService handles raffle lifecycle business logic: creation,
// ticket sale, reward allocation, and admin settlement.
type RaffleService struct {
	repo            RaffleRepository
	entrantRepo     EntrantRepository
	treasury        Treasury
	adminRepo       AdminRepository
	clock           Clock
	defaultCurrency string
}

// RaffleServiceConfig holds configuration for the raffle service
type RaffleServiceConfig struct {
	RaffleRepo  RaffleRepository
	EntrantRepo EntrantRepository
	Treasury    Treasury
	AdminRepo   AdminRepository
	Clock       Clock
	// DefaultCurrency fills currency_id when a create request omits it.
	DefaultCurrency string
}

// NewRaffleService creates a new raffle service
func NewRaffleService(cfg RaffleServiceConfig) *RaffleService {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &RaffleService{
		repo:            cfg.RaffleRepo,
		entrantRepo:     cfg.EntrantRepo,
		treasury:        cfg.Treasury,
		adminRepo:       cfg.AdminRepo,
		clock:           clock,
		defaultCurrency: cfg.DefaultCurrency,
	}
}

// requireAdmin checks that the caller is the registered admin
func (s *RaffleService) requireAdmin(ctx context.Context, userID string) error {
	settings, err := s.adminRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get admin settings: %w", err)
	}
	if settings == nil {
		return ErrAdminNotInitialized
	}
	if settings.AdminID != userID {
		return ErrNotAdmin
	}
	return nil
}

// Create creates a new raffle and opens its proceeds pool. Admin only.
func (s *RaffleService) Create(ctx context.Context, callerID string, req *model.CreateRaffleRequest) (*model.Raffle, error) {
	if req.CurrencyID == "" {
		req.CurrencyID = s.defaultCurrency
	}
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, model.NewBadRequestError("invalid start_time format")
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, model.NewBadRequestError("invalid end_time format")
	}

	now := s.clock.Now()
	if !startTime.Before(endTime) {
		return nil, model.ErrStartAfterEndTimestamp
	}
	if !endTime.After(now) {
		return nil, model.ErrEndTimestampAlreadyPassed
	}

	fee := uint64(0)
	if req.Fee != nil {
		fee = *req.Fee
	}
	if fee >= req.Price {
		return nil, model.ErrFeeGreaterThanPrice
	}
	// Strictly below the cap: a raffle whose every ticket is a reward
	// ticket has no proceeds to settle.
	if req.TicketCap != nil && req.RewardTickets >= *req.TicketCap {
		return nil, model.ErrRewardsNumGreaterThanTickets
	}
	if req.PerEntrantLimit != nil && *req.PerEntrantLimit < 1 {
		return nil, model.ErrLimitLessThanOne
	}

	seed := req.Seed
	if seed == "" {
		seed = uuid.NewString()
	}
	if existing, err := s.repo.GetBySeed(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to check seed: %w", err)
	} else if existing != nil {
		return nil, ErrSeedAlreadyUsed
	}

	raffle := &model.Raffle{
		Seed:            seed,
		Price:           req.Price,
		Fee:             fee,
		CurrencyID:      req.CurrencyID,
		RewardTickets:   req.RewardTickets,
		RewardAmount:    req.RewardAmount,
		RewardAssetID:   req.RewardAssetID,
		StartTime:       startTime,
		EndTime:         endTime,
		TicketCap:       req.TicketCap,
		PerEntrantLimit: req.PerEntrantLimit,
	}

	op := database.NewMultiStepOperation()
	op.AddStep("create raffle record",
		func(ctx context.Context) error {
			// The seed pre-check above races with concurrent creates;
			// the unique index is the arbiter.
			if err := s.repo.Create(ctx, raffle); err != nil {
				if errors.Is(err, database.ErrDuplicate) {
					return ErrSeedAlreadyUsed
				}
				return err
			}
			return nil
		},
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, raffle.ID)
		},
	)
	op.AddStep("open proceeds pool",
		func(ctx context.Context) error {
			return s.treasury.EnsureAccount(ctx, raffle.ID, raffle.CurrencyID)
		},
		nil,
	)
	if err := op.Execute(ctx); err != nil {
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}

	return raffle, nil
}

// GetByID retrieves a raffle with its derived lifecycle state
func (s *RaffleService) GetByID(ctx context.Context, id string) (*model.RaffleWithState, error) {
	raffle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}

	return &model.RaffleWithState{
		Raffle: *raffle,
		State:  raffle.State(s.clock.Now()),
	}, nil
}

// List retrieves raffles, newest first
func (s *RaffleService) List(ctx context.Context, limit, offset int) ([]*model.RaffleWithState, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	raffles, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}

	now := s.clock.Now()
	out := make([]*model.RaffleWithState, len(raffles))
	for i, r := range raffles {
		out[i] = &model.RaffleWithState{Raffle: *r, State: r.State(now)}
	}
	return out, nil
}

// BuyTickets purchases tickets for an existing entrant. The buyer pays
// price per ticket into the proceeds pool; counters move only after the
// payment clears.
func (s *RaffleService) BuyTickets(ctx context.Context, userID, raffleID string, req *model.BuyTicketsRequest) (*model.Entrant, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}

	raffle, err := s.repo.GetByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}

	entrant, err := s.entrantRepo.GetByRaffleAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrant: %w", err)
	}
	if entrant == nil {
		return nil, ErrEntrantNotFound
	}

	now := s.clock.Now()
	if err := raffle.AssertActive(now); err != nil {
		return nil, err
	}

	newSold, ok := checked.Add(raffle.TicketsSold, req.Quantity)
	if !ok {
		return nil, model.ErrInvalidCalculation
	}
	if raffle.TicketCap != nil && newSold > *raffle.TicketCap {
		return nil, model.ErrRaffleTicketsUnavailable
	}

	newTickets, ok := checked.Add(entrant.Tickets, req.Quantity)
	if !ok {
		return nil, model.ErrInvalidCalculation
	}
	if raffle.PerEntrantLimit != nil && newTickets > *raffle.PerEntrantLimit {
		return nil, model.ErrEntrantTicketLimitReached
	}

	cost, ok := checked.Mul(raffle.Price, req.Quantity)
	if !ok {
		return nil, model.ErrInvalidCalculation
	}

	op := database.NewMultiStepOperation()
	op.AddStep("debit buyer",
		func(ctx context.Context) error {
			return s.treasury.Transfer(ctx, userID, raffle.ID, raffle.CurrencyID, cost)
		},
		func(ctx context.Context) error {
			return s.treasury.Transfer(ctx, raffle.ID, userID, raffle.CurrencyID, cost)
		},
	)
	op.AddStep("record purchase",
		func(ctx context.Context) error {
			return s.repo.RecordPurchase(ctx, raffle.ID, entrant.ID, req.Quantity)
		},
		nil,
	)
	if err := op.Execute(ctx); err != nil {
		return nil, unwrapStepError(err)
	}

	entrant.Tickets = newTickets
	entrant.UpdatedOn = now
	return entrant, nil
}

// SetReward allocates reward tickets to one entrant. Admin only, after
// the sale has ended, at most once per entrant. Allocating zero rewards
// is valid and still marks the entrant as processed.
func (s *RaffleService) SetReward(ctx context.Context, callerID, raffleID string, req *model.SetRewardRequest) (*model.Entrant, error) {
	if errs := req.Validate(); len(errs) > 0 {
		return nil, model.NewValidationError(errs)
	}
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	raffle, err := s.repo.GetByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}

	now := s.clock.Now()
	if err := raffle.AssertEnded(now); err != nil {
		return nil, err
	}

	entrant, err := s.entrantRepo.GetByRaffleAndUser(ctx, raffleID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrant: %w", err)
	}
	if entrant == nil {
		return nil, ErrEntrantNotFound
	}
	if err := entrant.AssertNotAwarded(); err != nil {
		return nil, err
	}

	if req.Rewards > entrant.Tickets {
		return nil, model.ErrRewardsNumGreaterThanTicketsBought
	}
	newAwarded, ok := checked.Add(raffle.RewardsAwarded, req.Rewards)
	if !ok {
		return nil, model.ErrInvalidCalculation
	}
	if newAwarded > raffle.RewardCeiling() {
		return nil, model.ErrRewardsAmountGreaterThanTotal
	}

	if err := s.repo.RecordAllocation(ctx, raffle.ID, entrant.ID, req.Rewards); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrEntrantNotFound
		}
		return nil, fmt.Errorf("failed to record allocation: %w", err)
	}

	entrant.Rewards = req.Rewards
	entrant.Awarded = true
	entrant.UpdatedOn = now
	return entrant, nil
}

// ClaimProceeds transfers the authority proceeds from the pool to the
// admin: the full price of every rewarded ticket plus the fee on every
// refundable one. One-time.
func (s *RaffleService) ClaimProceeds(ctx context.Context, callerID, raffleID string) (uint64, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return 0, err
	}

	raffle, err := s.repo.GetByID(ctx, raffleID)
	if err != nil {
		return 0, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return 0, ErrRaffleNotFound
	}

	now := s.clock.Now()
	if err := raffle.AssertClaimable(now); err != nil {
		return 0, err
	}

	amount, err := raffle.AuthorityProceeds()
	if err != nil {
		return 0, err
	}

	op := database.NewMultiStepOperation()
	op.AddStep("transfer authority proceeds",
		func(ctx context.Context) error {
			return s.treasury.Transfer(ctx, raffle.ID, callerID, raffle.CurrencyID, amount)
		},
		func(ctx context.Context) error {
			return s.treasury.Transfer(ctx, callerID, raffle.ID, raffle.CurrencyID, amount)
		},
	)
	op.AddStep("mark claimed",
		func(ctx context.Context) error {
			return s.repo.MarkAdminClaimed(ctx, raffle.ID)
		},
		nil,
	)
	if err := op.Execute(ctx); err != nil {
		return 0, unwrapStepError(err)
	}

	return amount, nil
}

// Close destroys a fully settled raffle: proceeds claimed, every
// awarded reward claimed, pool empty. Admin only.
func (s *RaffleService) Close(ctx context.Context, callerID, raffleID string) error {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}

	raffle, err := s.repo.GetByID(ctx, raffleID)
	if err != nil {
		return fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return ErrRaffleNotFound
	}

	now := s.clock.Now()
	if err := raffle.AssertCloseable(now); err != nil {
		return err
	}

	balance, err := s.treasury.Balance(ctx, raffle.ID, raffle.CurrencyID)
	if err != nil {
		return fmt.Errorf("failed to check pool balance: %w", err)
	}
	if balance > 0 {
		return model.ErrPoolNotEmpty
	}

	// Any entrant record still around holds no funds at this point, or
	// the pool would not be empty. Sweep them before the raffle record.
	for {
		entrants, err := s.entrantRepo.ListByRaffle(ctx, raffle.ID, 100, 0)
		if err != nil {
			return fmt.Errorf("failed to list entrants: %w", err)
		}
		if len(entrants) == 0 {
			break
		}
		for _, e := range entrants {
			if err := s.entrantRepo.Delete(ctx, e.ID); err != nil {
				return fmt.Errorf("failed to delete entrant: %w", err)
			}
		}
	}

	op := database.NewMultiStepOperation()
	op.AddStep("delete raffle record",
		func(ctx context.Context) error {
			return s.repo.Delete(ctx, raffle.ID)
		},
		func(ctx context.Context) error {
			return s.repo.Restore(ctx, raffle)
		},
	)
	op.AddStep("close proceeds pool",
		func(ctx context.Context) error {
			return s.treasury.CloseAccount(ctx, raffle.ID, raffle.CurrencyID)
		},
		nil,
	)
	if err := op.Execute(ctx); err != nil {
		return unwrapStepError(err)
	}

	return nil
}
