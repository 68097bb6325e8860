package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/models"
	pkghttp "github.com/calebmartin/inkwell/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
}

// AuthHandler handles registration, login and the emailed-link flows.
// Every outcome is a flash message plus the route the client should
// navigate to next.
type AuthHandler struct {
	service       AuthServiceInterface
	cookieConfig  auth.CookieConfig
	sessionMaxAge int
}

func NewAuthHandler(service AuthServiceInterface, cookieConfig auth.CookieConfig, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		service:       service,
		cookieConfig:  cookieConfig,
		sessionMaxAge: sessionMaxAge,
	}
}

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	_, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEmail):
			pkghttp.WriteFlash(w, http.StatusConflict,
				"You've already signed up with that email, log in instead!",
				pkghttp.FlashWarning, "/login")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	pkghttp.WriteFlash(w, http.StatusCreated,
		"A confirmation email has been sent to your address.",
		pkghttp.FlashInfo, "/login")
}

// ConfirmEmail handles GET /auth/confirm-email?token=...
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		pkghttp.WriteBadRequest(w, "Missing confirmation token")
		return
	}

	_, err := h.service.VerifyEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTokenExpired):
			pkghttp.WriteFlash(w, http.StatusGone,
				"The confirmation link has expired, please register again.",
				pkghttp.FlashDanger, "/register")
		case errors.Is(err, models.ErrTokenInvalid):
			pkghttp.WriteFlash(w, http.StatusBadRequest,
				"The confirmation link is invalid.",
				pkghttp.FlashDanger, "/register")
		default:
			pkghttp.WriteInternalError(w, "Failed to confirm email")
		}
		return
	}

	pkghttp.WriteFlash(w, http.StatusOK,
		"Your email has been confirmed, you can now log in.",
		pkghttp.FlashSuccess, "/login")
}

// Login handles POST /auth/login. The three failure modes carry distinct
// messages, checked in order: unknown email, wrong password, unverified
// address.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	_, sessionToken, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownEmail):
			pkghttp.WriteFlash(w, http.StatusUnauthorized,
				"That email does not exist, please try again.",
				pkghttp.FlashDanger, "/login")
		case errors.Is(err, models.ErrWrongPassword):
			pkghttp.WriteFlash(w, http.StatusUnauthorized,
				"Password incorrect, please try again.",
				pkghttp.FlashDanger, "/login")
		case errors.Is(err, models.ErrNotVerified):
			pkghttp.WriteFlash(w, http.StatusForbidden,
				"Please confirm your email address before logging in.",
				pkghttp.FlashWarning, "/login")
		default:
			pkghttp.WriteInternalError(w, "Failed to log in")
		}
		return
	}

	auth.SetSessionCookie(w, sessionToken, h.sessionMaxAge, h.cookieConfig)

	pkghttp.WriteFlash(w, http.StatusOK,
		"Logged in successfully.",
		pkghttp.FlashSuccess, "/")
}

// Logout handles POST /auth/logout. Logging out without a session is not
// an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieConfig)

	pkghttp.WriteFlash(w, http.StatusOK,
		"Logged out.",
		pkghttp.FlashInfo, "/")
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownEmail):
			pkghttp.WriteFlash(w, http.StatusNotFound,
				"That email does not exist, please try again.",
				pkghttp.FlashDanger, "/forgot-password")
		case errors.Is(err, models.ErrDeliveryFailure):
			pkghttp.WriteFlash(w, http.StatusBadGateway,
				"We couldn't send the reset email, please try again later.",
				pkghttp.FlashDanger, "/forgot-password")
		default:
			pkghttp.WriteInternalError(w, "Failed to process request")
		}
		return
	}

	pkghttp.WriteFlash(w, http.StatusOK,
		"An email with instructions to reset your password has been sent to you.",
		pkghttp.FlashInfo, "/login")
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	// The reset page carries the token over from the emailed link's query
	// string when the client doesn't put it in the body.
	if req.Token == "" {
		req.Token = r.URL.Query().Get("token")
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrPasswordMismatch):
			pkghttp.WriteFlash(w, http.StatusBadRequest,
				"Passwords do not match, please try again.",
				pkghttp.FlashDanger, "/reset-password?token="+req.Token)
		case errors.Is(err, models.ErrTokenExpired):
			pkghttp.WriteFlash(w, http.StatusGone,
				"The password reset link has expired, please request a new one.",
				pkghttp.FlashDanger, "/forgot-password")
		case errors.Is(err, models.ErrTokenInvalid):
			pkghttp.WriteFlash(w, http.StatusBadRequest,
				"The password reset link is invalid.",
				pkghttp.FlashDanger, "/forgot-password")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, err.Error())
		default:
			pkghttp.WriteInternalError(w, "Failed to reset password")
		}
		return
	}

	pkghttp.WriteFlash(w, http.StatusOK,
		"Your password has been reset, you can now log in.",
		pkghttp.FlashSuccess, "/login")
}
