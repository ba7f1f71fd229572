// Package model defines the ledger records and data structures for the
// Tombola raffle API.
//
// The model package contains the persisted record types, their lifecycle
// and invariant helpers, request/response types, and error definitions.
// Models are used across all layers of the application.
//
// # Ledger Records
//
// Three record types make up the ledger:
//
//   - AdminSettings: singleton holding the identity authorized to
//     configure raffles and allocate rewards
//   - Raffle: per-raffle configuration and running counters
//   - Entrant: per-(raffle, user) ticket and reward counters
//
// # Lifecycle Helpers
//
// Raffle carries assertion methods (AssertActive, AssertEnded,
// AssertAwarded, AssertClaimable, AssertCloseable) that enforce the
// raffle state machine purely from persisted state and a caller-supplied
// clock reading. Settlement arithmetic (RefundableProceeds,
// RewardPayout, AuthorityProceeds) uses overflow-checked uint64
// operations; a calculation that would wrap aborts with
// ErrInvalidCalculation.
//
// # Error Types
//
// Ledger invariant violations are sentinel errors (errors.go); HTTP
// handlers map them to RFC 9457 Problem Details, also defined in
// errors.go.
package model
