package handlers

import (
	"context"

	"github.com/calebmartin/inkwell/internal/models"
)

// Mock services with function fields so each test overrides only what it
// needs.

type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, name, email, password string) (*models.User, error)
	VerifyEmailFunc    func(ctx context.Context, token string) (*models.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (*models.User, string, error)
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token, password, confirm string) error
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return m.RegisterFunc(ctx, name, email, password)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	return m.VerifyEmailFunc(ctx, token)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return m.ResetPasswordFunc(ctx, token, password, confirm)
}

type MockPostService struct {
	CreateFunc func(ctx context.Context, authorID string, post *models.BlogPost) (*models.BlogPost, error)
	GetFunc    func(ctx context.Context, id string) (*models.BlogPost, error)
	ListFunc   func(ctx context.Context) ([]*models.BlogPost, error)
	UpdateFunc func(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockPostService) Create(ctx context.Context, authorID string, post *models.BlogPost) (*models.BlogPost, error) {
	return m.CreateFunc(ctx, authorID, post)
}

func (m *MockPostService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockPostService) List(ctx context.Context) ([]*models.BlogPost, error) {
	return m.ListFunc(ctx)
}

func (m *MockPostService) Update(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error) {
	return m.UpdateFunc(ctx, id, post)
}

func (m *MockPostService) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type MockCommentService struct {
	CreateFunc     func(ctx context.Context, postID, authorID, text string) (*models.Comment, error)
	DeleteFunc     func(ctx context.Context, commentID, requesterID string) error
	ListByPostFunc func(ctx context.Context, postID string) ([]*models.Comment, error)
}

func (m *MockCommentService) Create(ctx context.Context, postID, authorID, text string) (*models.Comment, error) {
	return m.CreateFunc(ctx, postID, authorID, text)
}

func (m *MockCommentService) Delete(ctx context.Context, commentID, requesterID string) error {
	return m.DeleteFunc(ctx, commentID, requesterID)
}

func (m *MockCommentService) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return m.ListByPostFunc(ctx, postID)
}

type MockContactService struct {
	SubmitFunc func(ctx context.Context, name, email, phone, message string) error
}

func (m *MockContactService) Submit(ctx context.Context, name, email, phone, message string) error {
	return m.SubmitFunc(ctx, name, email, phone, message)
}
