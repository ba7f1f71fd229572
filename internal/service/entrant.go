package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
)

// EntrantRepository defines the interface for entrant record storage
type EntrantRepository interface {
	Create(ctx context.Context, entrant *model.Entrant) error
	GetByRaffleAndUser(ctx context.Context, raffleID, userID string) (*model.Entrant, error)
	ListByRaffle(ctx context.Context, raffleID string, limit, offset int) ([]*model.Entrant, error)
	Delete(ctx context.Context, id string) error
}

// EntrantService handles entrant participation: joining a raffle and
// claiming settlement after rewards are allocated.
type EntrantService struct {
	repo       EntrantRepository
	raffleRepo RaffleRepository
	treasury   Treasury
	clock      Clock
}

// EntrantServiceConfig holds configuration for the entrant service
type EntrantServiceConfig struct {
	EntrantRepo EntrantRepository
	RaffleRepo  RaffleRepository
	Treasury    Treasury
	Clock       Clock
}

// NewEntrantService creates a new entrant service
func NewEntrantService(cfg EntrantServiceConfig) *EntrantService {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &EntrantService{
		repo:       cfg.EntrantRepo,
		raffleRepo: cfg.RaffleRepo,
		treasury:   cfg.Treasury,
		clock:      clock,
	}
}

// Join creates the caller's entrant record for a raffle. Joining is
// only possible while the sale window is open.
func (s *EntrantService) Join(ctx context.Context, userID, raffleID string) (*model.Entrant, error) {
	raffle, err := s.raffleRepo.GetByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}

	now := s.clock.Now()
	if err := raffle.AssertActive(now); err != nil {
		return nil, err
	}

	entrant := &model.Entrant{
		UserID:   userID,
		RaffleID: raffle.ID,
	}
	if err := s.repo.Create(ctx, entrant); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEntrantExists
		}
		return nil, fmt.Errorf("failed to create entrant: %w", err)
	}

	return entrant, nil
}

// Get retrieves a user's entrant record for a raffle
func (s *EntrantService) Get(ctx context.Context, raffleID, userID string) (*model.Entrant, error) {
	entrant, err := s.repo.GetByRaffleAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrant: %w", err)
	}
	if entrant == nil {
		return nil, ErrEntrantNotFound
	}
	return entrant, nil
}

// Settle closes out the caller's entrant record once allocation is
// complete: refunds price minus fee for every non-rewarded ticket,
// mints the reward payout, counts the rewards as claimed, and destroys
// the record. Destroying the record is what makes settlement
// exactly-once.
func (s *EntrantService) Settle(ctx context.Context, userID, raffleID string) (*model.Settlement, error) {
	raffle, err := s.raffleRepo.GetByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	if raffle == nil {
		return nil, ErrRaffleNotFound
	}

	entrant, err := s.repo.GetByRaffleAndUser(ctx, raffleID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrant: %w", err)
	}
	if entrant == nil {
		return nil, ErrEntrantNotFound
	}

	now := s.clock.Now()
	if err := raffle.AssertAwarded(now); err != nil {
		return nil, err
	}

	refundableTickets, err := entrant.RefundableTickets()
	if err != nil {
		return nil, err
	}
	refund, err := raffle.RefundableProceeds(refundableTickets)
	if err != nil {
		return nil, err
	}
	payout, err := raffle.RewardPayout(entrant.Rewards)
	if err != nil {
		return nil, err
	}

	// The record mutation runs last so a failure in any value movement
	// leaves the entrant intact and the claim retryable.
	op := database.NewMultiStepOperation()
	op.AddStep("refund entrant",
		func(ctx context.Context) error {
			return s.treasury.Transfer(ctx, raffle.ID, userID, raffle.CurrencyID, refund)
		},
		func(ctx context.Context) error {
			return s.treasury.Transfer(ctx, userID, raffle.ID, raffle.CurrencyID, refund)
		},
	)
	op.AddStep("mint reward payout",
		func(ctx context.Context) error {
			return s.treasury.Mint(ctx, userID, raffle.RewardAssetID, payout)
		},
		func(ctx context.Context) error {
			return s.treasury.Burn(ctx, userID, raffle.RewardAssetID, payout)
		},
	)
	op.AddStep("settle entrant record",
		func(ctx context.Context) error {
			// A concurrent claim that settled first deleted the record;
			// failing here rolls the refund and payout back.
			err := s.raffleRepo.SettleEntrant(ctx, raffle.ID, entrant.ID, entrant.Rewards)
			if errors.Is(err, database.ErrNotFound) {
				return ErrEntrantNotFound
			}
			return err
		},
		nil,
	)
	if err := op.Execute(ctx); err != nil {
		return nil, unwrapStepError(err)
	}

	return &model.Settlement{
		RaffleID:        raffle.ID,
		UserID:          userID,
		RefundedTickets: refundableTickets,
		RefundAmount:    refund,
		RewardTickets:   entrant.Rewards,
		RewardPayout:    payout,
	}, nil
}
