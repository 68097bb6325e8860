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

// PostServiceInterface defines the interface for blog post business logic
type PostServiceInterface interface {
	Create(ctx context.Context, authorID string, post *models.BlogPost) (*models.BlogPost, error)
	Get(ctx context.Context, id string) (*models.BlogPost, error)
	List(ctx context.Context) ([]*models.BlogPost, error)
	Update(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

// CommentListerInterface lists a post's comments for the post page
type CommentListerInterface interface {
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

// PostHandler handles blog post HTTP requests
type PostHandler struct {
	posts    PostServiceInterface
	comments CommentListerInterface
}

func NewPostHandler(posts PostServiceInterface, comments CommentListerInterface) *PostHandler {
	return &PostHandler{
		posts:    posts,
		comments: comments,
	}
}

// Request and response DTOs

type PostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=250"`
	Subtitle string `json:"subtitle" validate:"required,min=1,max=250"`
	Body     string `json:"body" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
}

type PostResponse struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body,omitempty"`
	ImageURL string `json:"image_url"`
	Date     string `json:"date"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}

func toPostResponse(post *models.BlogPost, withBody bool) PostResponse {
	resp := PostResponse{
		ID:       post.ID,
		Author:   post.AuthorName,
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImageURL: post.ImageURL,
		Date:     post.Date,
	}
	if withBody {
		resp.Body = post.Body
	}
	return resp
}

func toCommentResponses(comments []*models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:        c.ID,
			Author:    c.AuthorName,
			Text:      c.Text,
			CreatedAt: c.CreatedAt.Format("January 2, 2006"),
		})
	}
	return out
}

// List handles GET /posts. The index shows every post, newest first,
// without bodies.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load posts")
		return
	}

	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, toPostResponse(post, false))
	}

	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /posts/{postID}, returning the post with its comments.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	post, err := h.posts.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Post not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to load post")
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), postID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load comments")
		return
	}

	writeJSON(w, http.StatusOK, PostDetailResponse{
		PostResponse: toPostResponse(post, true),
		Comments:     toCommentResponses(comments),
	})
}

// Create handles POST /posts (admin only)
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "You need to login or register to do that.")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	post, err := h.posts.Create(r.Context(), userID, &models.BlogPost{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateTitle) {
			pkghttp.WriteFlash(w, http.StatusConflict,
				"A post with that title already exists.",
				pkghttp.FlashWarning, "/new-post")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post, true))
}

// Update handles PUT /posts/{postID} (admin only)
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	post, err := h.posts.Update(r.Context(), postID, &models.BlogPost{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Post not found")
		case errors.Is(err, models.ErrDuplicateTitle):
			pkghttp.WriteFlash(w, http.StatusConflict,
				"A post with that title already exists.",
				pkghttp.FlashWarning, "/edit-post/"+postID)
		default:
			pkghttp.WriteInternalError(w, "Failed to update post")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post, true))
}

// Delete handles DELETE /posts/{postID} (admin only)
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	if err := h.posts.Delete(r.Context(), postID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Post not found")
			return
		}
		pkghttp.WriteInternalError(w, "Failed to delete post")
		return
	}

	pkghttp.WriteFlash(w, http.StatusOK,
		"Post deleted.",
		pkghttp.FlashInfo, "/")
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
