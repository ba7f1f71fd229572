package handler

import (
	"errors"

	"github.com/tombola/api/internal/model"
	"github.com/tombola/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
//
// The broad shape: malformed requests are 4xx validation problems,
// requests the current ledger state forbids are 409s with a ledger
// code, and anything unexpected collapses to a 500 without leaking
// internals.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Services sometimes return fully-formed problems (validation).
	var pd *model.ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidBootstrapSecret):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotAdmin):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrRaffleNotFound):
		return model.NewNotFoundError("raffle")
	case errors.Is(err, service.ErrEntrantNotFound):
		return model.NewNotFoundError("entrant")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrAdminAlreadyInitialized),
		errors.Is(err, service.ErrAdminNotInitialized),
		errors.Is(err, service.ErrEntrantExists),
		errors.Is(err, service.ErrSeedAlreadyUsed):
		return model.NewConflictError(err.Error())

	// ===== Configuration Errors → 422 =====
	// The request itself is contradictory, regardless of ledger state.
	case errors.Is(err, model.ErrStartAfterEndTimestamp),
		errors.Is(err, model.ErrEndTimestampAlreadyPassed):
		return model.NewValidationError([]model.FieldError{{Field: "timestamps", Message: err.Error()}})
	case errors.Is(err, model.ErrFeeGreaterThanPrice):
		return model.NewValidationError([]model.FieldError{{Field: "fee", Message: err.Error()}})
	case errors.Is(err, model.ErrRewardsNumGreaterThanTickets),
		errors.Is(err, model.ErrRewardsNumGreaterThanTicketsBought),
		errors.Is(err, model.ErrRewardsAmountGreaterThanTotal):
		return model.NewValidationError([]model.FieldError{{Field: "rewards", Message: err.Error()}})
	case errors.Is(err, model.ErrLimitLessThanOne):
		return model.NewValidationError([]model.FieldError{{Field: "per_entrant_limit", Message: err.Error()}})

	// ===== Lifecycle Errors → 409 =====
	// Well-formed requests that the raffle's current state forbids.
	case errors.Is(err, model.ErrRaffleNotStarted),
		errors.Is(err, model.ErrRaffleEnded),
		errors.Is(err, model.ErrRaffleStillActive),
		errors.Is(err, model.ErrRaffleRewardsNotSet),
		errors.Is(err, model.ErrEntrantAlreadyAwarded),
		errors.Is(err, model.ErrEntrantNotAwarded):
		return model.NewLedgerError(err.Error(), model.ErrCodeLifecycle)

	// ===== Capacity Errors → 409 =====
	case errors.Is(err, model.ErrRaffleSoldOut),
		errors.Is(err, model.ErrRaffleTicketsUnavailable),
		errors.Is(err, model.ErrNotEnoughTicketsLeft),
		errors.Is(err, model.ErrEntrantTicketLimitReached):
		return model.NewLedgerError(err.Error(), model.ErrCodeCapacity)

	// ===== Settlement Errors → 409 =====
	case errors.Is(err, model.ErrRaffleAdminAlreadyClaimed),
		errors.Is(err, model.ErrRaffleAdminNotClaimed),
		errors.Is(err, model.ErrRaffleRewardsNotClaimed),
		errors.Is(err, model.ErrPoolNotEmpty):
		return model.NewLedgerError(err.Error(), model.ErrCodeSettlement)

	// ===== Arithmetic Errors → 409 =====
	// A checked computation refused to overflow. The configured
	// amounts make the operation impossible, not malformed.
	case errors.Is(err, model.ErrInvalidCalculation):
		return model.NewLedgerError(err.Error(), model.ErrCodeArithmetic)

	// ===== Value Transfer Errors → 409 =====
	case errors.Is(err, model.ErrInsufficientFunds):
		return model.NewLedgerError(err.Error(), model.ErrCodeInsufficient)

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
