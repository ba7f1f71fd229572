// Package config manages application configuration for the raffle ledger API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT key paths and validation settings
//   - LedgerConfig: bootstrap secret hash and ledger asset
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT                   - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT              - SurrealDB endpoint
//	DB_USER, DB_PASSWORD          - Database credentials
//	DB_NAMESPACE, DB_DATABASE     - Namespace and database names
//	JWT_PUBLIC_KEY_PATH           - RS256 public key for token validation
//	JWT_PRIVATE_KEY_PATH          - RS256 private key (token minting only)
//	LEDGER_BOOTSTRAP_SECRET_HASH  - bcrypt hash gating admin bootstrap
//	LEDGER_ASSET                  - asset raffles are denominated in
//
// Sensible defaults are provided for development; production deploys
// must set the JWT public key and the bootstrap secret hash.
package config
