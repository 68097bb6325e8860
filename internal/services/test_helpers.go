package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/models"
)

// Mock implementations with function fields so each test overrides only
// what it needs.

type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	MarkVerifiedFunc   func(ctx context.Context, id string) error
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	UpdateRoleFunc     func(ctx context.Context, id, role string) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return m.CreateFunc(ctx, user)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id string) error {
	return m.MarkVerifiedFunc(ctx, id)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.UpdatePasswordFunc(ctx, id, passwordHash)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id, role string) error {
	return m.UpdateRoleFunc(ctx, id, role)
}

type MockPostRepository struct {
	CreateFunc  func(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.BlogPost, error)
	ListFunc    func(ctx context.Context) ([]*models.BlogPost, error)
	UpdateFunc  func(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	return m.CreateFunc(ctx, post)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.BlogPost, error) {
	return m.ListFunc(ctx)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error) {
	return m.UpdateFunc(ctx, id, post)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type MockCommentRepository struct {
	CreateFunc     func(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByIDFunc    func(ctx context.Context, id string) (*models.Comment, error)
	DeleteFunc     func(ctx context.Context, id string) error
	ListByPostFunc func(ctx context.Context, postID string) ([]*models.Comment, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	return m.CreateFunc(ctx, comment)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return m.ListByPostFunc(ctx, postID)
}

type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records every message; SendFunc overrides delivery outcome.
type MockMailer struct {
	SendFunc func(ctx context.Context, to, subject, body string) error
	Sent     []SentMail
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-services", 30*time.Minute, 24*time.Hour)
}
