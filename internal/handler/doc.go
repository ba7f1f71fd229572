// Package handler provides HTTP request handlers for the raffle ledger API.
//
// Each handler struct wraps the service it fronts and translates between
// HTTP and the service layer. Handlers stay thin: decode, delegate, map
// the error, write the response.
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the service dependency
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Service errors are mapped to RFC 9457 Problem Details by MapServiceError
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: List of resources
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Mutating endpoints require a JWT. The auth middleware verifies it and
// exposes the caller via middleware.GetUserID; admin checks live in the
// service layer, which compares the caller against the stored authority.
// The one exception is POST /v1/admin, which authenticates with the
// bootstrap secret because no authority exists yet.
package handler
