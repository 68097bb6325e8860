package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/calebmartin/inkwell/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// PostRepository defines the persistence operations for blog posts
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	List(ctx context.Context) ([]*models.BlogPost, error)
	Update(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

// PostService handles blog post business logic. Post bodies arrive as
// rich-text HTML and are sanitized with a UGC policy before persisting.
type PostService struct {
	posts    PostRepository
	policy   *bluemonday.Policy
	logger   *slog.Logger
	dateForm string
}

func NewPostService(posts PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		policy:   bluemonday.UGCPolicy(),
		logger:   logger,
		dateForm: "January 2, 2006",
	}
}

func (s *PostService) Create(ctx context.Context, authorID string, post *models.BlogPost) (*models.BlogPost, error) {
	post.AuthorID = authorID
	post.Title = strings.TrimSpace(post.Title)
	post.Subtitle = strings.TrimSpace(post.Subtitle)
	post.Body = s.policy.Sanitize(post.Body)
	post.Date = time.Now().Format(s.dateForm)

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateTitle) {
			return nil, models.ErrDuplicateTitle
		}
		s.logger.Error("failed to create post", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("post created",
		slog.String("post_id", created.ID),
		slog.String("author_id", authorID))

	return created, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get post", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]*models.BlogPost, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return posts, nil
}

// Update edits a post in place. The original publication date survives
// the edit.
func (s *PostService) Update(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error) {
	post.Title = strings.TrimSpace(post.Title)
	post.Subtitle = strings.TrimSpace(post.Subtitle)
	post.Body = s.policy.Sanitize(post.Body)

	updated, err := s.posts.Update(ctx, id, post)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		case errors.Is(err, models.ErrDuplicateTitle):
			return nil, models.ErrDuplicateTitle
		}
		s.logger.Error("failed to update post", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("post updated", slog.String("post_id", id))

	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete post", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("post deleted", slog.String("post_id", id))

	return nil
}
