package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable. Ledger rule
// violations (lifecycle, capacity, settlement) live in the model
// package next to the records whose invariants they guard.

// ===== Admin Errors =====
var (
	ErrAdminNotInitialized     = errors.New("admin registry not initialized")
	ErrAdminAlreadyInitialized = errors.New("admin registry already initialized")
	ErrNotAdmin                = errors.New("not authorized to perform this action")
	ErrInvalidBootstrapSecret  = errors.New("invalid bootstrap secret")
)

// ===== Raffle Errors =====
var (
	ErrRaffleNotFound  = errors.New("raffle not found")
	ErrSeedAlreadyUsed = errors.New("a raffle with this seed already exists")
)

// ===== Entrant Errors =====
var (
	ErrEntrantNotFound = errors.New("entrant not found")
	ErrEntrantExists   = errors.New("already entered this raffle")
)

// unwrapStepError strips multi-step wrapping so callers surface the
// underlying ledger error (insufficient funds, sold out) directly.
func unwrapStepError(err error) error {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err
		}
		err = inner
	}
}
