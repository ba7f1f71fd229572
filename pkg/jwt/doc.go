// Package jwt provides JSON Web Token utilities for the raffle ledger API.
//
// Tokens are RS256-signed. The package handles key loading, signing,
// validation, and claims extraction.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "tombola-api",
//	    ExpirationMins: 15,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    UserID: "user:abc",
//	    Role:   "admin",
//	})
//
// # Token Validation
//
// Validation-only deployments load just the public key:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// # Claims
//
// Beyond the registered JWT claims, two custom claims identify the
// caller to the ledger:
//
//	UserID string // record id of the caller, e.g. "user:abc"
//	Role   string // "user" or "admin"
package jwt
