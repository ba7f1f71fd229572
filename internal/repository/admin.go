package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
)

// adminSettingsID is the fixed record ID of the singleton admin
// registry. Using a fixed ID makes initialization race-safe: a second
// CREATE on the same record fails instead of producing a second row.
const adminSettingsID = "admin_settings:main"

// AdminRepository handles the admin settings singleton
type AdminRepository struct {
	db database.Database
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db database.Database) *AdminRepository {
	return &AdminRepository{db: db}
}

// Get retrieves the admin settings record. Returns nil when the
// registry has not been initialized.
func (r *AdminRepository) Get(ctx context.Context) (*model.AdminSettings, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": adminSettingsID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin settings: %w", err)
	}

	return parseAdminSettings(result)
}

// Create initializes the admin registry. Returns database.ErrDuplicate
// when the registry already exists.
func (r *AdminRepository) Create(ctx context.Context, adminID string) (*model.AdminSettings, error) {
	query := `
		CREATE type::record($id) CONTENT {
			admin_id: $admin_id,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"id":       adminSettingsID,
		"admin_id": adminID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, database.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create admin settings: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return nil, fmt.Errorf("failed to extract created admin settings: %w", err)
	}

	return &model.AdminSettings{
		ID:        created.ID,
		AdminID:   adminID,
		CreatedOn: created.CreatedOn,
		UpdatedOn: created.UpdatedOn,
	}, nil
}

// SetAdmin rotates the registered admin identity
func (r *AdminRepository) SetAdmin(ctx context.Context, adminID string) (*model.AdminSettings, error) {
	query := `
		UPDATE type::record($id) SET
			admin_id = $admin_id,
			updated_on = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":       adminSettingsID,
		"admin_id": adminID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to set admin: %w", err)
	}

	return parseAdminSettings(result)
}

func parseAdminSettings(result interface{}) (*model.AdminSettings, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	settings := &model.AdminSettings{
		ID:      convertSurrealID(data["id"]),
		AdminID: getString(data, "admin_id"),
	}

	if t := getTime(data, "created_on"); t != nil {
		settings.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		settings.UpdatedOn = *t
	}

	return settings, nil
}
