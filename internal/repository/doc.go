// Package repository implements data access for the Tombola API.
//
// Repositories translate between ledger models and SurrealDB records.
// Each repository handles one table:
//
//   - RaffleRepository: raffle records and their lifecycle counters
//   - EntrantRepository: per-user participation records
//   - AdminRepository: the admin settings singleton
//   - TreasuryRepository: the balance store backing value transfers
//
// # Query Patterns
//
// Repositories use SurrealQL with parameterized queries:
//
//	query := `SELECT * FROM raffle WHERE seed = $seed`
//	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
//	    "seed": seed,
//	})
//
// # Multi-Record Mutations
//
// Counter bumps that span records (a purchase touches the raffle and
// the entrant) run through database.AtomicBatch so they commit
// together. Guards that depend on current state (ticket cap, balance
// floor) are re-checked inside the transaction with THROW, which
// aborts the whole batch.
//
// # Error Handling
//
// Repositories return database package errors:
//
//	raffle, err := repo.GetByID(ctx, id)
//	if errors.Is(err, database.ErrNotFound) {
//	    // handle missing raffle
//	}
//
// Absent records are returned as (nil, nil) from Get methods; the
// service layer decides whether that is an error.
package repository
