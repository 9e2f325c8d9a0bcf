package auth

import "versekeep/internal/domain/models"

// JWTVerifier validates bearer tokens and extracts their claims.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.AuthClaims, error)
	Close() error
}
