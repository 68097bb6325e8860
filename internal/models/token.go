package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Verification and reset tokens share the same construction
// but carry a purpose discriminant so one cannot be replayed against the
// other flow. Session tokens identify a logged-in user for request handling.
const (
	TokenPurposeVerify  = "verify"
	TokenPurposeReset   = "reset"
	TokenPurposeSession = "session"
)

// TokenClaims is the signed payload of every token the service issues.
type TokenClaims struct {
	Purpose string `json:"purpose"`
	UserID  string `json:"user_id"`
	jwt.RegisteredClaims
}
