// Package service implements the business logic layer for the Tombola API.
//
// The service package contains the raffle lifecycle engine: validation
// rules, temporal gating, settlement arithmetic orchestration, and the
// coordination of record mutations with value transfers. Services are
// the primary abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Time
//
// Every temporal decision goes through the Clock interface, injected at
// construction. Production wiring uses SystemClock; tests pin the clock
// to exercise the sale window edges deterministically.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrRaffleNotFound = errors.New("raffle not found")
//	    ErrNotAdmin       = errors.New("not authorized to perform this action")
//	)
//
// Ledger rule violations (raffle ended, sold out, rewards not set) are
// defined in the model package next to the records whose invariants
// they guard, and pass through services unchanged.
//
// # Example Usage
//
//	service := NewRaffleService(RaffleServiceConfig{
//	    RaffleRepo:  raffleRepository,
//	    EntrantRepo: entrantRepository,
//	    Treasury:    treasuryRepository,
//	    AdminRepo:   adminRepository,
//	    Clock:       SystemClock{},
//	})
//	raffle, err := service.Create(ctx, adminID, req)
package service
