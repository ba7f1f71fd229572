package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tombola/api/internal/database"
	"github.com/tombola/api/internal/model"
)

// TreasuryRepository handles the balance store: one row per (owner,
// asset) pair holding an unsigned amount. Raffle proceeds pools are
// ordinary owners here, addressed by the raffle's pool ID, so a
// purchase, refund or claim is a plain transfer between two rows.
type TreasuryRepository struct {
	db database.Database
}

// NewTreasuryRepository creates a new treasury repository
func NewTreasuryRepository(db database.Database) *TreasuryRepository {
	return &TreasuryRepository{db: db}
}

// EnsureAccount creates a zero balance row for (owner, asset) if none
// exists yet. Idempotent.
func (r *TreasuryRepository) EnsureAccount(ctx context.Context, owner, asset string) error {
	query := `
		UPSERT balance SET
			owner = $owner,
			asset = $asset,
			amount += 0,
			updated_on = time::now()
		WHERE owner = $owner AND asset = $asset
	`
	vars := map[string]interface{}{
		"owner": owner,
		"asset": asset,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}
	return nil
}

// Transfer moves amount from one owner to another within one
// transaction. The balance check runs inside the transaction; an
// underfunded source aborts the whole batch and surfaces as
// model.ErrInsufficientFunds.
func (r *TreasuryRepository) Transfer(ctx context.Context, from, to, asset string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $src = (SELECT * FROM balance WHERE owner = $from AND asset = $asset)[0];
		IF $src = NONE OR $src.amount < $amount {
			THROW "insufficient funds"
		};
		UPDATE balance SET
			amount -= $amount,
			updated_on = time::now()
		WHERE owner = $from AND asset = $asset;
	`, map[string]interface{}{
		"from":   from,
		"asset":  asset,
		"amount": amount,
	})
	batch.Add(`
		UPSERT balance SET
			owner = $to,
			asset = $asset,
			amount += $amount,
			updated_on = time::now()
		WHERE owner = $to AND asset = $asset;
	`, map[string]interface{}{
		"to":     to,
		"asset":  asset,
		"amount": amount,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		if containsThrow(err, "insufficient funds") {
			return model.ErrInsufficientFunds
		}
		return fmt.Errorf("failed to transfer: %w", err)
	}
	return nil
}

// Mint credits newly issued units of asset to owner. Reward assets are
// minted at settlement rather than moved from a pool.
func (r *TreasuryRepository) Mint(ctx context.Context, to, asset string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	query := `
		UPSERT balance SET
			owner = $to,
			asset = $asset,
			amount += $amount,
			updated_on = time::now()
		WHERE owner = $to AND asset = $asset
	`
	vars := map[string]interface{}{
		"to":     to,
		"asset":  asset,
		"amount": amount,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to mint: %w", err)
	}
	return nil
}

// Burn removes previously minted units from owner. Used as compensation
// when a settlement step fails after the mint.
func (r *TreasuryRepository) Burn(ctx context.Context, from, asset string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $src = (SELECT * FROM balance WHERE owner = $from AND asset = $asset)[0];
		IF $src = NONE OR $src.amount < $amount {
			THROW "insufficient funds"
		};
		UPDATE balance SET
			amount -= $amount,
			updated_on = time::now()
		WHERE owner = $from AND asset = $asset;
	`, map[string]interface{}{
		"from":   from,
		"asset":  asset,
		"amount": amount,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		if containsThrow(err, "insufficient funds") {
			return model.ErrInsufficientFunds
		}
		return fmt.Errorf("failed to burn: %w", err)
	}
	return nil
}

// Balance returns the current amount for (owner, asset). A missing row
// reads as zero.
func (r *TreasuryRepository) Balance(ctx context.Context, owner, asset string) (uint64, error) {
	query := `
		SELECT amount FROM balance
		WHERE owner = $owner AND asset = $asset
	`
	vars := map[string]interface{}{
		"owner": owner,
		"asset": asset,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getUint64(data, "amount"), nil
	}
	return 0, nil
}

// CloseAccount deletes the balance row for (owner, asset). A non-empty
// account refuses to close: funds must be transferred out first.
func (r *TreasuryRepository) CloseAccount(ctx context.Context, owner, asset string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`
		LET $acct = (SELECT * FROM balance WHERE owner = $owner AND asset = $asset)[0];
		IF $acct != NONE AND $acct.amount > 0 {
			THROW "account not empty"
		};
		DELETE balance WHERE owner = $owner AND asset = $asset;
	`, map[string]interface{}{
		"owner": owner,
		"asset": asset,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		if containsThrow(err, "account not empty") {
			return model.ErrPoolNotEmpty
		}
		return fmt.Errorf("failed to close account: %w", err)
	}
	return nil
}
