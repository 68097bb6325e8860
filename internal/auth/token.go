package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/calebmartin/inkwell/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager issues and verifies stateless signed tokens. There is no
// server-side record of issued tokens, so a token cannot be revoked before
// it expires; the validity window is the only bound.
type TokenManager struct {
	secret        string
	tokenExpiry   time.Duration // verify/reset link validity window
	sessionExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, tokenExpiry, sessionExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:        secret,
		tokenExpiry:   tokenExpiry,
		sessionExpiry: sessionExpiry,
	}
}

// Issue creates a signed token carrying the user id and a purpose
// discriminant. A verify token cannot be replayed against the reset flow
// or vice versa because Verify checks the purpose.
func (tm *TokenManager) Issue(userID, purpose string) (string, error) {
	expiry := tm.tokenExpiry
	if purpose == models.TokenPurposeSession {
		expiry = tm.sessionExpiry
	}

	now := time.Now()
	claims := &models.TokenClaims{
		Purpose: purpose,
		UserID:  userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}

	return tokenString, nil
}

// Verify checks the signature, expiry and purpose of a token and returns
// the user id it carries. Expiry and all other failures are distinguishable:
// callers show "link expired" for ErrTokenExpired and "link invalid" for
// ErrTokenInvalid.
func (tm *TokenManager) Verify(tokenString, purpose string) (string, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", models.ErrTokenExpired
		}
		return "", models.ErrTokenInvalid
	}

	if !token.Valid {
		return "", models.ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		return "", models.ErrTokenInvalid
	}

	if claims.UserID == "" {
		return "", models.ErrTokenInvalid
	}

	return claims.UserID, nil
}
