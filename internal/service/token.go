package service

import (
	"github.com/tombola/api/pkg/jwt"
)

// TokenService validates access tokens for the auth middleware. Token
// minting lives in the admin-token tool; the API only verifies.
type TokenService struct {
	jwtService *jwt.Service
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	JWTService *jwt.Service
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	return &TokenService{jwtService: cfg.JWTService}
}

// ValidateAccessToken validates a token and returns its claims
func (s *TokenService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}
