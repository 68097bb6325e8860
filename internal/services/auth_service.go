package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/models"
	pkgauth "github.com/calebmartin/inkwell/pkg/auth"
	pkglogger "github.com/calebmartin/inkwell/pkg/logger"
)

// UserRepository defines the persistence operations the auth flows need
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id, role string) error
}

// AuthService handles registration, verification, login and password reset
type AuthService struct {
	users   UserRepository
	tm      *auth.TokenManager
	mailer  Mailer
	logger  *slog.Logger
	baseURL string
}

func NewAuthService(users UserRepository, tm *auth.TokenManager, mailer Mailer, logger *slog.Logger, baseURL string) *AuthService {
	return &AuthService{
		users:   users,
		tm:      tm,
		mailer:  mailer,
		logger:  logger,
		baseURL: baseURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and emails a confirmation link.
// A delivery failure does not fail registration; the account exists and
// the user can ask for the link again via the forgot-password flow once
// that is wired, so we log and move on.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBadRequest, err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			s.logger.Info("registration with existing email",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, models.ErrDuplicateEmail
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.sendVerificationEmail(ctx, user); err != nil {
		s.logger.Warn("verification email not delivered",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", pkglogger.SanitizedEmail(user.Email)))

	return user, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *models.User) error {
	token, err := s.tm.Issue(user.ID, models.TokenPurposeVerify)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/confirm-email?token=%s", s.baseURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for signing up. Confirm your email address by visiting the link below:\n\n%s\n\nThe link expires in 30 minutes. If you didn't create this account you can ignore this email.\n",
		user.Name, link,
	)

	return s.mailer.Send(ctx, user.Email, "Confirm your email", body)
}

// VerifyEmail consumes a confirmation link token and marks the account
// verified. Verifying twice is harmless.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tm.Verify(token, models.TokenPurposeVerify)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Account deleted after the link was issued
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("failed to load user for verification", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.EmailVerified {
		return user, nil
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		s.logger.Error("failed to mark user verified",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.EmailVerified = true

	s.logger.Info("email verified", slog.String("user_id", user.ID))

	return user, nil
}

// Login checks the email, then the password, then the verified flag, in
// that order. Each failure has its own sentinel so the handler can show
// the matching message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: unknown email",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, "", models.ErrUnknownEmail
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: wrong password", slog.String("user_id", user.ID))
		return nil, "", models.ErrWrongPassword
	}

	if !user.EmailVerified {
		s.logger.Info("login blocked: email not verified", slog.String("user_id", user.ID))
		return nil, "", models.ErrNotVerified
	}

	sessionToken, err := s.tm.Issue(user.ID, models.TokenPurposeSession)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return user, sessionToken, nil
}

// ForgotPassword emails a reset link. Unknown addresses are reported to
// the caller; the product shows the same message it shows on login.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password reset for unknown email",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return models.ErrUnknownEmail
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	token, err := s.tm.Issue(user.ID, models.TokenPurposeReset)
	if err != nil {
		s.logger.Error("failed to issue reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nSomeone asked to reset the password for this account. Follow the link below to choose a new one:\n\n%s\n\nThe link expires in 30 minutes. If this wasn't you, you can ignore this email and your password will stay as it is.\n",
		user.Name, link,
	)

	if err := s.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
		// The account holder asked for this mail; unlike registration there
		// is nothing else to show them, so the failure surfaces.
		return err
	}

	s.logger.Info("password reset email sent", slog.String("user_id", user.ID))

	return nil
}

// ResetPassword consumes a reset link token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if password != confirm {
		return models.ErrPasswordMismatch
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %v", models.ErrBadRequest, err)
	}

	userID, err := s.tm.Verify(token, models.TokenPurposeReset)
	if err != nil {
		return err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrTokenInvalid
		}
		s.logger.Error("failed to update password",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset", slog.String("user_id", userID))

	return nil
}

// EnsureAdmin provisions the configured admin account at startup. The
// account is created verified; if it already exists it is promoted
// instead. Called once from main before the server starts listening.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = normalizeEmail(email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.IsAdmin() {
			return nil
		}
		if err := s.users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote admin user: %w", err)
		}
		s.logger.Info("existing user promoted to admin", slog.String("user_id", existing.ID))
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:         email,
		PasswordHash:  hash,
		Name:          "Admin",
		EmailVerified: true,
		Role:          models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	s.logger.Info("admin user provisioned", slog.String("user_id", user.ID))

	return nil
}
