// Package middleware provides HTTP middleware for the raffle ledger API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, metrics, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and caller extraction
//   - RateLimit: Request rate limiting per user/IP
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//   - Metrics: Prometheus request counters and latency histograms
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts the caller:
//
//	protected := middleware.Chain(mux, middleware.Auth(tokenService))
//
// After authentication, handlers can access caller info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Rate Limiting
//
// Rate limiting protects against abuse:
//
//	handler = middleware.RateLimit(limiter)(handler)
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetClaims(ctx): Returns the full JWT claims
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
