package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/models"
	pkghttp "github.com/calebmartin/inkwell/pkg/http"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(service *MockAuthService) *AuthHandler {
	return NewAuthHandler(service, auth.CookieConfig{SameSite: "lax"}, 86400)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)
	return rec
}

func decodeFlash(t *testing.T, rec *httptest.ResponseRecorder) pkghttp.FlashResponse {
	t.Helper()

	var flash pkghttp.FlashResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&flash))
	return flash
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &MockAuthService{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*models.User, error) {
				return &models.User{ID: uuid.New().String(), Email: email, Name: name}, nil
			},
		}
		rec := postJSON(t, newAuthHandler(service).Register, "/auth/register", RegisterRequest{
			Name: "Jane", Email: "jane@example.com", Password: "password123",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/login", flash.Redirect)
		assert.Equal(t, pkghttp.FlashInfo, flash.Category)
		assert.Contains(t, flash.Message, "confirmation email")
	})

	t.Run("duplicate email redirects to login", func(t *testing.T) {
		service := &MockAuthService{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*models.User, error) {
				return nil, models.ErrDuplicateEmail
			},
		}
		rec := postJSON(t, newAuthHandler(service).Register, "/auth/register", RegisterRequest{
			Name: "Jane", Email: "jane@example.com", Password: "password123",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/login", flash.Redirect)
		assert.Contains(t, flash.Message, "already signed up")
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		service := &MockAuthService{
			RegisterFunc: func(ctx context.Context, name, email, password string) (*models.User, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		}
		rec := postJSON(t, newAuthHandler(service).Register, "/auth/register", RegisterRequest{
			Name: "Jane", Email: "not-an-email", Password: "password123",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newAuthHandler(&MockAuthService{})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_ConfirmEmail(t *testing.T) {
	get := func(service *MockAuthService, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		newAuthHandler(service).ConfirmEmail(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		service := &MockAuthService{
			VerifyEmailFunc: func(ctx context.Context, token string) (*models.User, error) {
				assert.Equal(t, "tok123", token)
				return &models.User{EmailVerified: true}, nil
			},
		}
		rec := get(service, "/auth/confirm-email?token=tok123")

		assert.Equal(t, http.StatusOK, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/login", flash.Redirect)
		assert.Equal(t, pkghttp.FlashSuccess, flash.Category)
	})

	t.Run("expired link", func(t *testing.T) {
		service := &MockAuthService{
			VerifyEmailFunc: func(ctx context.Context, token string) (*models.User, error) {
				return nil, models.ErrTokenExpired
			},
		}
		rec := get(service, "/auth/confirm-email?token=old")

		assert.Equal(t, http.StatusGone, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Contains(t, flash.Message, "expired")
	})

	t.Run("invalid link", func(t *testing.T) {
		service := &MockAuthService{
			VerifyEmailFunc: func(ctx context.Context, token string) (*models.User, error) {
				return nil, models.ErrTokenInvalid
			},
		}
		rec := get(service, "/auth/confirm-email?token=junk")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Contains(t, flash.Message, "invalid")
	})

	t.Run("missing token", func(t *testing.T) {
		rec := get(&MockAuthService{}, "/auth/confirm-email")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success sets session cookie", func(t *testing.T) {
		service := &MockAuthService{
			LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
				return &models.User{ID: uuid.New().String()}, "session-token", nil
			},
		}
		rec := postJSON(t, newAuthHandler(service).Login, "/auth/login", LoginRequest{
			Email: "jane@example.com", Password: "password123",
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
		assert.Equal(t, "session-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)

		flash := decodeFlash(t, rec)
		assert.Equal(t, "/", flash.Redirect)
	})

	failureCases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unknown email", models.ErrUnknownEmail, http.StatusUnauthorized, "That email does not exist, please try again."},
		{"wrong password", models.ErrWrongPassword, http.StatusUnauthorized, "Password incorrect, please try again."},
		{"not verified", models.ErrNotVerified, http.StatusForbidden, "Please confirm your email address before logging in."},
	}

	for _, tc := range failureCases {
		t.Run(tc.name, func(t *testing.T) {
			service := &MockAuthService{
				LoginFunc: func(ctx context.Context, email, password string) (*models.User, string, error) {
					return nil, "", tc.err
				},
			}
			rec := postJSON(t, newAuthHandler(service).Login, "/auth/login", LoginRequest{
				Email: "jane@example.com", Password: "password123",
			})

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())

			flash := decodeFlash(t, rec)
			assert.Equal(t, tc.wantMsg, flash.Message)
			assert.Equal(t, "/login", flash.Redirect)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	handler := newAuthHandler(&MockAuthService{})

	// Logout is idempotent; no session required
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		service := &MockAuthService{
			ForgotPasswordFunc: func(ctx context.Context, email string) error {
				return models.ErrUnknownEmail
			},
		}
		rec := postJSON(t, newAuthHandler(service).ForgotPassword, "/auth/forgot-password", ForgotPasswordRequest{
			Email: "nobody@example.com",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "That email does not exist, please try again.", flash.Message)
	})

	t.Run("success", func(t *testing.T) {
		service := &MockAuthService{
			ForgotPasswordFunc: func(ctx context.Context, email string) error {
				return nil
			},
		}
		rec := postJSON(t, newAuthHandler(service).ForgotPassword, "/auth/forgot-password", ForgotPasswordRequest{
			Email: "jane@example.com",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/login", flash.Redirect)
		assert.Contains(t, flash.Message, "reset your password")
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Run("mismatch keeps user on reset page", func(t *testing.T) {
		service := &MockAuthService{
			ResetPasswordFunc: func(ctx context.Context, token, password, confirm string) error {
				return models.ErrPasswordMismatch
			},
		}
		rec := postJSON(t, newAuthHandler(service).ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Token: "tok", Password: "one", ConfirmPassword: "two",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/reset-password?token=tok", flash.Redirect)
	})

	t.Run("expired token", func(t *testing.T) {
		service := &MockAuthService{
			ResetPasswordFunc: func(ctx context.Context, token, password, confirm string) error {
				return models.ErrTokenExpired
			},
		}
		rec := postJSON(t, newAuthHandler(service).ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Token: "tok", Password: "newpassword", ConfirmPassword: "newpassword",
		})

		assert.Equal(t, http.StatusGone, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/forgot-password", flash.Redirect)
	})

	t.Run("token taken from query string", func(t *testing.T) {
		var gotToken string
		service := &MockAuthService{
			ResetPasswordFunc: func(ctx context.Context, token, password, confirm string) error {
				gotToken = token
				return nil
			},
		}
		rec := postJSON(t, newAuthHandler(service).ResetPassword, "/auth/reset-password?token=from-query", ResetPasswordRequest{
			Password: "newpassword", ConfirmPassword: "newpassword",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "from-query", gotToken)
	})

	t.Run("success", func(t *testing.T) {
		service := &MockAuthService{
			ResetPasswordFunc: func(ctx context.Context, token, password, confirm string) error {
				return nil
			},
		}
		rec := postJSON(t, newAuthHandler(service).ResetPassword, "/auth/reset-password", ResetPasswordRequest{
			Token: "tok", Password: "newpassword", ConfirmPassword: "newpassword",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		flash := decodeFlash(t, rec)
		assert.Equal(t, "/login", flash.Redirect)
		assert.Equal(t, pkghttp.FlashSuccess, flash.Category)
	})
}
