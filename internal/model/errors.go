package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Ledger invariant errors. These are raised by the record lifecycle
// helpers and the settlement arithmetic; every one of them aborts the
// whole operation with no partial mutation.

// ===== Arithmetic =====
var (
	// ErrInvalidCalculation indicates a checked add/sub/mul would have
	// overflowed or underflowed a uint64. Never downgraded or clamped.
	ErrInvalidCalculation = errors.New("invalid calculation")
)

// ===== Configuration (raffle creation) =====
var (
	ErrStartAfterEndTimestamp       = errors.New("start timestamp must be smaller than end timestamp")
	ErrEndTimestampAlreadyPassed    = errors.New("end timestamp already passed")
	ErrFeeGreaterThanPrice          = errors.New("fee must be smaller than price")
	ErrRewardsNumGreaterThanTickets = errors.New("number of reward tickets must be smaller than number of tickets")
	ErrLimitLessThanOne             = errors.New("limit of available tickets per entrant must be greater than zero")
)

// ===== Temporal lifecycle =====
var (
	ErrRaffleNotStarted  = errors.New("raffle has not yet started")
	ErrRaffleEnded       = errors.New("raffle has ended")
	ErrRaffleStillActive = errors.New("raffle is still active")
)

// ===== Capacity =====
var (
	ErrRaffleTicketsUnavailable  = errors.New("the required amount of tickets is not available")
	ErrEntrantTicketLimitReached = errors.New("the purchase would exceed the maximum amount of allowed tickets per user")
	ErrRaffleSoldOut             = errors.New("raffle has been sold out")
	ErrNotEnoughTicketsLeft      = errors.New("not enough tickets left")
)

// ===== Allocation state =====
var (
	ErrRaffleRewardsNotSet                = errors.New("raffle rewards have not been set yet")
	ErrRewardsNumGreaterThanTicketsBought = errors.New("number of reward tickets must be smaller than number of tickets bought")
	ErrRewardsAmountGreaterThanTotal      = errors.New("number of rewards greater than number of total rewards")
	ErrEntrantAlreadyAwarded              = errors.New("entrant's reward has already been set")
	ErrEntrantNotAwarded                  = errors.New("entrant's reward has not been set yet")
)

// ===== Settlement state =====
var (
	ErrRaffleAdminAlreadyClaimed = errors.New("raffle admin has already claimed the proceeds")
	ErrRaffleAdminNotClaimed     = errors.New("raffle admin has not claimed the proceeds yet")
	ErrRaffleRewardsNotClaimed   = errors.New("not all raffle rewards have been claimed yet")
)

// ===== Value transfer =====
var (
	// ErrInsufficientFunds indicates a balance debit would have gone
	// below zero; the surrounding transaction fails atomically.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPoolNotEmpty indicates an attempt to close a proceeds pool that
	// still holds funds.
	ErrPoolNotEmpty = errors.New("pool is not empty")
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeTokenExpired ErrorCode = 1002
	ErrCodeTokenInvalid ErrorCode = 1003

	// Authorization errors (2xxx)
	ErrCodeForbidden ErrorCode = 2001

	// Resource errors (3xxx)
	ErrCodeNotFound      ErrorCode = 3001
	ErrCodeAlreadyExists ErrorCode = 3002
	ErrCodeConflict      ErrorCode = 3003

	// Validation errors (4xxx)
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// Ledger errors (5xxx)
	ErrCodeLifecycle    ErrorCode = 5001
	ErrCodeCapacity     ErrorCode = 5002
	ErrCodeArithmetic   ErrorCode = 5003
	ErrCodeSettlement   ErrorCode = 5004
	ErrCodeInsufficient ErrorCode = 5005

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = 9001
	ErrCodeDatabase ErrorCode = 9002
)

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Extension fields
	Code ErrorCode `json:"code,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Common error constructors

func NewUnauthorizedError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/unauthorized",
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
		Code:   ErrCodeUnauthorized,
	}
}

func NewForbiddenError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/forbidden",
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: detail,
		Code:   ErrCodeForbidden,
	}
}

func NewNotFoundError(resource string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/not-found",
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
		Code:   ErrCodeNotFound,
	}
}

func NewValidationError(errors []FieldError) *ProblemDetails {
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/validation",
		Title:  "Validation Error",
		Status: http.StatusUnprocessableEntity,
		Detail: detail,
		Code:   ErrCodeValidation,
		Errors: errors,
	}
}

func NewConflictError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/conflict",
		Title:  "Conflict",
		Status: http.StatusConflict,
		Detail: detail,
		Code:   ErrCodeConflict,
	}
}

// NewLedgerError reports a lifecycle, capacity, or settlement rule
// violation. These are well-formed requests that the current ledger
// state forbids, so they map to 409 Conflict.
func NewLedgerError(detail string, code ErrorCode) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/ledger",
		Title:  "Ledger Rule Violation",
		Status: http.StatusConflict,
		Detail: detail,
		Code:   code,
	}
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/internal",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Code:   ErrCodeInternal,
	}
}

func NewBadRequestError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/bad-request",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
		Code:   ErrCodeInvalidInput,
	}
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://api.tombola.dev/errors/rate-limited",
		Title:  "Too Many Requests",
		Status: http.StatusTooManyRequests,
		Detail: fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter),
	}
}
