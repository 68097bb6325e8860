package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/calebmartin/inkwell/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// CommentRepository defines the persistence operations for comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

// UserGetter loads a user by id, for the author-or-admin delete check.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CommentService handles comment business logic. Comment text is plain
// text; any markup a visitor pastes in is stripped, not escaped.
type CommentService struct {
	comments CommentRepository
	posts    PostRepository
	users    UserGetter
	policy   *bluemonday.Policy
	logger   *slog.Logger
}

func NewCommentService(comments CommentRepository, posts PostRepository, users UserGetter, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		policy:   bluemonday.StrictPolicy(),
		logger:   logger,
	}
}

// Create adds a comment to a post on behalf of a logged-in user.
func (s *CommentService) Create(ctx context.Context, postID, authorID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(s.policy.Sanitize(text))
	if text == "" {
		return nil, models.ErrBadRequest
	}

	// The post must still exist; a comment on a deleted post 404s rather
	// than tripping the foreign key.
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to check post for comment", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	comment, err := s.comments.Create(ctx, &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	})
	if err != nil {
		s.logger.Error("failed to create comment", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", postID))

	return comment, nil
}

// Delete removes a comment. Only its author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, commentID, requesterID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to load comment for delete", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if comment.AuthorID != requesterID {
		requester, err := s.users.GetByID(ctx, requesterID)
		if err != nil || !requester.IsAdmin() {
			return models.ErrForbidden
		}
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete comment", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("comment deleted",
		slog.String("comment_id", commentID),
		slog.String("requester_id", requesterID))

	return nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		s.logger.Error("failed to list comments", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return comments, nil
}
