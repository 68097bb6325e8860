package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/calebmartin/inkwell/internal/database"
	"github.com/calebmartin/inkwell/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{pool: db.Pool}
}

func scanCommentRow(scanner rowScanner) (*models.Comment, error) {
	var comment models.Comment

	err := scanner.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID,
		&comment.Text, &comment.CreatedAt, &comment.AuthorName,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &comment, nil
}

func scanCommentRows(rows pgx.Rows) ([]*models.Comment, error) {
	defer rows.Close()

	comments := make([]*models.Comment, 0)

	for rows.Next() {
		comment, err := scanCommentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()

	query := `
		WITH inserted AS (
			INSERT INTO comments (id, post_id, author_id, text, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, post_id, author_id, text, created_at
		)
		SELECT i.id, i.post_id, i.author_id, i.text, i.created_at, u.name
		FROM inserted i JOIN users u ON u.id = i.author_id
	`

	return scanCommentRow(r.pool.QueryRow(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID,
		comment.Text, comment.CreatedAt,
	))
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.name
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`

	return scanCommentRow(r.pool.QueryRow(ctx, query, id))
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListByPost returns a post's comments oldest first, the order they read
// in on the post page.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.name
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	return scanCommentRows(rows)
}
