package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calebmartin/inkwell/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserGetter struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserGetter) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func okHandler(sawUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := UserIDFromContext(r.Context()); ok {
			*sawUserID = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSession_ValidCookie(t *testing.T) {
	tm := newTestManager()
	userID := uuid.New().String()

	token, err := tm.Issue(userID, models.TokenPurposeSession)
	require.NoError(t, err)

	var sawUserID string
	handler := Session(tm)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, sawUserID)
}

func TestSession_BearerFallback(t *testing.T) {
	tm := newTestManager()
	userID := uuid.New().String()

	token, err := tm.Issue(userID, models.TokenPurposeSession)
	require.NoError(t, err)

	var sawUserID string
	handler := Session(tm)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, userID, sawUserID)
}

func TestSession_NoToken_PassesThroughUnauthenticated(t *testing.T) {
	tm := newTestManager()

	var sawUserID string
	handler := Session(tm)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sawUserID)
}

func TestSession_RejectsNonSessionToken(t *testing.T) {
	tm := newTestManager()
	userID := uuid.New().String()

	// A verification token must not grant a session
	token, err := tm.Issue(userID, models.TokenPurposeVerify)
	require.NoError(t, err)

	var sawUserID string
	handler := Session(tm)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, sawUserID)
}

func TestSession_ExpiredToken(t *testing.T) {
	expired := NewTokenManager("test-secret-key-for-tokens", -time.Minute, -time.Minute)
	tm := NewTokenManager("test-secret-key-for-tokens", 30*time.Minute, 24*time.Hour)
	userID := uuid.New().String()

	token, err := expired.Issue(userID, models.TokenPurposeSession)
	require.NoError(t, err)

	var sawUserID string
	handler := Session(tm)(okHandler(&sawUserID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sawUserID)
}

func TestRequireUser(t *testing.T) {
	var sawUserID string
	handler := RequireUser(okHandler(&sawUserID))

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		userID := uuid.New().String()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, sawUserID)
	})
}

func TestRequireAdmin(t *testing.T) {
	adminID := uuid.New().String()
	userID := uuid.New().String()

	users := &mockUserGetter{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			switch id {
			case adminID:
				return &models.User{ID: id, Role: models.RoleAdmin}, nil
			case userID:
				return &models.User{ID: id, Role: models.RoleUser}, nil
			default:
				return nil, models.ErrNotFound
			}
		},
	}

	var sawUserID string
	handler := RequireAdmin(users)(okHandler(&sawUserID))

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ordinary user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), uuid.New().String()))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(ContextWithUserID(req.Context(), adminID))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, adminID, sawUserID)
	})
}
