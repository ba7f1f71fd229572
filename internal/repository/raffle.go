package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
)

// RaffleRepository handles raffle record access
type RaffleRepository struct {
	db database.Database
}

// NewRaffleRepository creates a new raffle repository
func NewRaffleRepository(db database.Database) *RaffleRepository {
	return &RaffleRepository{db: db}
}

// Create creates a new raffle record
func (r *RaffleRepository) Create(ctx context.Context, raffle *model.Raffle) error {
	// Build query dynamically to avoid NULL values for optional fields
	vars := map[string]interface{}{
		"seed":            raffle.Seed,
		"price":           raffle.Price,
		"fee":             raffle.Fee,
		"currency_id":     raffle.CurrencyID,
		"reward_tickets":  raffle.RewardTickets,
		"reward_amount":   raffle.RewardAmount,
		"reward_asset_id": raffle.RewardAssetID,
		"start_time":      raffle.StartTime,
		"end_time":        raffle.EndTime,
	}

	optionalFields := ""
	if raffle.TicketCap != nil {
		optionalFields += ",\n\t\t\tticket_cap: $ticket_cap"
		vars["ticket_cap"] = *raffle.TicketCap
	}
	if raffle.PerEntrantLimit != nil {
		optionalFields += ",\n\t\t\tper_entrant_limit: $per_entrant_limit"
		vars["per_entrant_limit"] = *raffle.PerEntrantLimit
	}

	query := `
		CREATE raffle CONTENT {
			seed: $seed,
			price: $price,
			fee: $fee,
			currency_id: $currency_id,
			reward_tickets: $reward_tickets,
			reward_amount: $reward_amount,
			reward_asset_id: $reward_asset_id,
			start_time: $start_time,
			end_time: $end_time,
			tickets_sold: 0,
			rewards_awarded: 0,
			rewards_claimed: 0,
			admin_claimed: false,
			created_on: time::now(),
			updated_on: time::now()` + optionalFields + `
		}
	`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("failed to create raffle: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created raffle: %w", err)
	}

	raffle.ID = created.ID
	raffle.CreatedOn = created.CreatedOn
	raffle.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a raffle by ID
func (r *RaffleRepository) GetByID(ctx context.Context, id string) (*model.Raffle, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}

	return parseRaffle(result)
}

// GetBySeed retrieves a raffle by its derivation seed
func (r *RaffleRepository) GetBySeed(ctx context.Context, seed string) (*model.Raffle, error) {
	query := `SELECT * FROM raffle WHERE seed = $seed`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"seed": seed})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get raffle by seed: %w", err)
	}

	return parseRaffle(result)
}

// List retrieves raffles ordered by creation time, newest first
func (r *RaffleRepository) List(ctx context.Context, limit, offset int) ([]*model.Raffle, error) {
	query := `
		SELECT * FROM raffle
		ORDER BY created_on DESC LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}

	return parseRaffles(result)
}

// RecordPurchase bumps the sold counter and the entrant's ticket count
// in one transaction. The guard re-checks the cap inside the transaction
// so two concurrent purchases cannot both squeeze under it.
func (r *RaffleRepository) RecordPurchase(ctx context.Context, raffleID, entrantID string, quantity uint64) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $r = (SELECT * FROM type::record($raffle_id))[0];
		IF $r.ticket_cap != NONE AND $r.tickets_sold + $quantity > $r.ticket_cap {
			THROW "ticket cap exceeded"
		};
		UPDATE type::record($raffle_id) SET
			tickets_sold += $quantity,
			updated_on = time::now();
	`, map[string]interface{}{
		"raffle_id": raffleID,
		"quantity":  quantity,
	})
	batch.Add(`
		UPDATE type::record($entrant_id) SET
			tickets += $quantity,
			updated_on = time::now();
	`, map[string]interface{}{
		"entrant_id": entrantID,
		"quantity":   quantity,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		if isCapExceededError(err) {
			return model.ErrRaffleSoldOut
		}
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

// RecordAllocation marks one entrant as awarded and adds its reward
// count to the raffle's awarded total, atomically. The awarded flag is
// re-checked inside the transaction: the service's read runs in an
// earlier request, so without the guard two concurrent allocations for
// the same entrant would both commit and double-count rewards_awarded.
func (r *RaffleRepository) RecordAllocation(ctx context.Context, raffleID, entrantID string, rewards uint64) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $e = (SELECT * FROM type::record($entrant_id))[0];
		IF $e = NONE {
			THROW "entrant not found"
		};
		IF $e.awarded {
			THROW "already awarded"
		};
		UPDATE type::record($entrant_id) SET
			rewards = $rewards,
			awarded = true,
			updated_on = time::now();
	`, map[string]interface{}{
		"entrant_id": entrantID,
		"rewards":    rewards,
	})
	batch.Add(`
		UPDATE type::record($raffle_id) SET
			rewards_awarded += $rewards,
			updated_on = time::now();
	`, map[string]interface{}{
		"raffle_id": raffleID,
		"rewards":   rewards,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		if containsThrow(err, "already awarded") {
			return model.ErrEntrantAlreadyAwarded
		}
		if containsThrow(err, "entrant not found") {
			return database.ErrNotFound
		}
		return fmt.Errorf("failed to record allocation: %w", err)
	}
	return nil
}

// SettleEntrant counts the entrant's rewards as claimed and destroys the
// entrant record, atomically. Destroying the record is what makes
// settlement exactly-once: a second attempt finds nothing to settle.
func (r *RaffleRepository) SettleEntrant(ctx context.Context, raffleID, entrantID string, rewards uint64) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $e = (SELECT * FROM type::record($entrant_id))[0];
		IF $e = NONE {
			THROW "entrant not found"
		};
		DELETE type::record($entrant_id);
	`, map[string]interface{}{
		"entrant_id": entrantID,
	})
	batch.Add(`
		UPDATE type::record($raffle_id) SET
			rewards_claimed += $rewards,
			updated_on = time::now();
	`, map[string]interface{}{
		"raffle_id": raffleID,
		"rewards":   rewards,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		// A DELETE of a missing record is a silent no-op, so the guard
		// is what makes a lost settle race fail and roll the value
		// movements back.
		if containsThrow(err, "entrant not found") {
			return database.ErrNotFound
		}
		return fmt.Errorf("failed to settle entrant: %w", err)
	}
	return nil
}

// MarkAdminClaimed flips the admin_claimed flag
func (r *RaffleRepository) MarkAdminClaimed(ctx context.Context, id string) error {
	query := `
		UPDATE type::record($id) SET
			admin_claimed = true,
			updated_on = time::now()
	`
	if err := r.db.Execute(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to mark admin claimed: %w", err)
	}
	return nil
}

// Delete destroys a raffle record
func (r *RaffleRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	if err := r.db.Execute(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete raffle: %w", err)
	}
	return nil
}

// Restore re-creates a raffle record with its counters intact. Used as
// compensation when pool teardown fails after the record was deleted.
func (r *RaffleRepository) Restore(ctx context.Context, raffle *model.Raffle) error {
	vars := map[string]interface{}{
		"id":              raffle.ID,
		"seed":            raffle.Seed,
		"price":           raffle.Price,
		"fee":             raffle.Fee,
		"currency_id":     raffle.CurrencyID,
		"reward_tickets":  raffle.RewardTickets,
		"reward_amount":   raffle.RewardAmount,
		"reward_asset_id": raffle.RewardAssetID,
		"start_time":      raffle.StartTime,
		"end_time":        raffle.EndTime,
		"tickets_sold":    raffle.TicketsSold,
		"rewards_awarded": raffle.RewardsAwarded,
		"rewards_claimed": raffle.RewardsClaimed,
		"admin_claimed":   raffle.AdminClaimed,
		"created_on":      raffle.CreatedOn,
	}

	optionalFields := ""
	if raffle.TicketCap != nil {
		optionalFields += ",\n\t\t\tticket_cap: $ticket_cap"
		vars["ticket_cap"] = *raffle.TicketCap
	}
	if raffle.PerEntrantLimit != nil {
		optionalFields += ",\n\t\t\tper_entrant_limit: $per_entrant_limit"
		vars["per_entrant_limit"] = *raffle.PerEntrantLimit
	}

	query := `
		CREATE type::record($id) CONTENT {
			seed: $seed,
			price: $price,
			fee: $fee,
			currency_id: $currency_id,
			reward_tickets: $reward_tickets,
			reward_amount: $reward_amount,
			reward_asset_id: $reward_asset_id,
			start_time: $start_time,
			end_time: $end_time,
			tickets_sold: $tickets_sold,
			rewards_awarded: $rewards_awarded,
			rewards_claimed: $rewards_claimed,
			admin_claimed: $admin_claimed,
			created_on: $created_on,
			updated_on: time::now()` + optionalFields + `
		}
	`

	if err := r.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to restore raffle: %w", err)
	}
	return nil
}

// Parsing helpers

func isCapExceededError(err error) bool {
	return err != nil && containsThrow(err, "ticket cap exceeded")
}

func parseRaffle(result interface{}) (*model.Raffle, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	raffle := &model.Raffle{
		ID:              convertSurrealID(data["id"]),
		Seed:            getString(data, "seed"),
		Price:           getUint64(data, "price"),
		Fee:             getUint64(data, "fee"),
		CurrencyID:      getString(data, "currency_id"),
		RewardTickets:   getUint64(data, "reward_tickets"),
		RewardAmount:    getUint64(data, "reward_amount"),
		RewardAssetID:   getString(data, "reward_asset_id"),
		TicketCap:       getUint64Ptr(data, "ticket_cap"),
		PerEntrantLimit: getUint64Ptr(data, "per_entrant_limit"),
		TicketsSold:     getUint64(data, "tickets_sold"),
		RewardsAwarded:  getUint64(data, "rewards_awarded"),
		RewardsClaimed:  getUint64(data, "rewards_claimed"),
		AdminClaimed:    getBool(data, "admin_claimed"),
	}

	if t := getTime(data, "start_time"); t != nil {
		raffle.StartTime = *t
	}
	if t := getTime(data, "end_time"); t != nil {
		raffle.EndTime = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		raffle.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		raffle.UpdatedOn = *t
	}

	return raffle, nil
}

func parseRaffles(result []interface{}) ([]*model.Raffle, error) {
	raffles := make([]*model.Raffle, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					raffle, err := parseRaffle(item)
					if err != nil {
						continue
					}
					raffles = append(raffles, raffle)
				}
			}
		}
	}

	return raffles, nil
}
