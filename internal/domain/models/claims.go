package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the JWT claims issued by the auth provider. The subject is
// the user id that scopes every query.
type AuthClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}
