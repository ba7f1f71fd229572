package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
)

// EntrantRepository handles entrant record access
type EntrantRepository struct {
	db database.Database
}

// NewEntrantRepository creates a new entrant repository
func NewEntrantRepository(db database.Database) *EntrantRepository {
	return &EntrantRepository{db: db}
}

// Create creates a new entrant record. Returns database.ErrDuplicate
// when the user already has a record for this raffle.
func (r *EntrantRepository) Create(ctx context.Context, entrant *model.Entrant) error {
	query := `
		CREATE entrant CONTENT {
			user_id: $user_id,
			raffle_id: type::record($raffle_id),
			tickets: 0,
			rewards: 0,
			awarded: false,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"user_id":   entrant.UserID,
		"raffle_id": entrant.RaffleID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("failed to create entrant: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created entrant: %w", err)
	}

	entrant.ID = created.ID
	entrant.CreatedOn = created.CreatedOn
	entrant.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByRaffleAndUser retrieves a user's entrant record for a raffle
func (r *EntrantRepository) GetByRaffleAndUser(ctx context.Context, raffleID, userID string) (*model.Entrant, error) {
	query := `
		SELECT * FROM entrant
		WHERE raffle_id = type::record($raffle_id)
		AND user_id = $user_id
	`
	vars := map[string]interface{}{
		"raffle_id": raffleID,
		"user_id":   userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entrant: %w", err)
	}

	return parseEntrant(result)
}

// ListByRaffle retrieves all entrants for a raffle
func (r *EntrantRepository) ListByRaffle(ctx context.Context, raffleID string, limit, offset int) ([]*model.Entrant, error) {
	query := `
		SELECT * FROM entrant
		WHERE raffle_id = type::record($raffle_id)
		ORDER BY created_on ASC LIMIT $limit START $offset
	`
	vars := map[string]interface{}{
		"raffle_id": raffleID,
		"limit":     limit,
		"offset":    offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list entrants: %w", err)
	}

	return parseEntrants(result)
}

// Delete destroys an entrant record
func (r *EntrantRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	if err := r.db.Execute(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete entrant: %w", err)
	}
	return nil
}

// Parsing helpers

func parseEntrant(result interface{}) (*model.Entrant, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	entrant := &model.Entrant{
		ID:       convertSurrealID(data["id"]),
		UserID:   getString(data, "user_id"),
		RaffleID: convertSurrealID(data["raffle_id"]),
		Tickets:  getUint64(data, "tickets"),
		Rewards:  getUint64(data, "rewards"),
		Awarded:  getBool(data, "awarded"),
	}

	if t := getTime(data, "created_on"); t != nil {
		entrant.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		entrant.UpdatedOn = *t
	}

	return entrant, nil
}

func parseEntrants(result []interface{}) ([]*model.Entrant, error) {
	entrants := make([]*model.Entrant, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					entrant, err := parseEntrant(item)
					if err != nil {
						continue
					}
					entrants = append(entrants, entrant)
				}
			}
		}
	}

	return entrants, nil
}
