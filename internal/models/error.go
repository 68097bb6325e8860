package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Auth flow errors. Login distinguishes unknown email, wrong password
	// and unverified account with separate user-facing messages, in that
	// order of checks.
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateTitle   = errors.New("post title already exists")
	ErrUnknownEmail     = errors.New("email does not exist")
	ErrWrongPassword    = errors.New("password incorrect")
	ErrNotVerified      = errors.New("email address not verified")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Token errors. Expired means the signature checked out but the token
	// is older than its validity window; invalid covers everything else.
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")

	// Mail relay failure. Callers decide whether to swallow it.
	ErrDeliveryFailure = errors.New("mail delivery failed")
)
