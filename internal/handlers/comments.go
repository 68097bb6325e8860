package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/models"
	pkghttp "github.com/calebmartin/inkwell/pkg/http"
	"github.com/go-chi/chi/v5"
)

// CommentServiceInterface defines the interface for comment business logic
type CommentServiceInterface interface {
	Create(ctx context.Context, postID, authorID, text string) (*models.Comment, error)
	Delete(ctx context.Context, commentID, requesterID string) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	service CommentServiceInterface
}

func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// Create handles POST /posts/{postID}/comments. Only logged-in users can
// comment; the route guard enforces that before we get here.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "You need to login or register to comment.")
		return
	}

	postID := chi.URLParam(r, "postID")

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	comment, err := h.service.Create(r.Context(), postID, userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Post not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Comment cannot be empty")
		default:
			pkghttp.WriteInternalError(w, "Failed to add comment")
		}
		return
	}

	writeJSON(w, http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		Author:    comment.AuthorName,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.Format("January 2, 2006"),
	})
}

// Delete handles DELETE /comments/{commentID}. The author can remove
// their own comment; admins can remove anyone's.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "You need to login or register to do that.")
		return
	}

	commentID := chi.URLParam(r, "commentID")

	if err := h.service.Delete(r.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Comment not found")
		case errors.Is(err, models.ErrForbidden):
			pkghttp.WriteForbidden(w, "You can only delete your own comments.")
		default:
			pkghttp.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
