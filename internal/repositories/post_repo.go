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

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{pool: db.Pool}
}

func scanPostRow(scanner rowScanner) (*models.BlogPost, error) {
	var post models.BlogPost

	err := scanner.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Subtitle,
		&post.Body, &post.ImageURL, &post.Date,
		&post.CreatedAt, &post.UpdatedAt, &post.AuthorName,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &post, nil
}

func scanPostRows(rows pgx.Rows) ([]*models.BlogPost, error) {
	defer rows.Close()

	posts := make([]*models.BlogPost, 0)

	for rows.Next() {
		post, err := scanPostRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	post.ID = uuid.New().String()

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	query := `
		WITH inserted AS (
			INSERT INTO blog_posts (id, author_id, title, subtitle, body, image_url, date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, author_id, title, subtitle, body, image_url, date, created_at, updated_at
		)
		SELECT i.id, i.author_id, i.title, i.subtitle, i.body, i.image_url, i.date, i.created_at, i.updated_at, u.name
		FROM inserted i JOIN users u ON u.id = i.author_id
	`

	return scanPostRow(r.pool.QueryRow(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Subtitle,
		post.Body, post.ImageURL, post.Date,
		post.CreatedAt, post.UpdatedAt,
	))
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.subtitle, p.body, p.image_url, p.date, p.created_at, p.updated_at, u.name
		FROM blog_posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`

	return scanPostRow(r.pool.QueryRow(ctx, query, id))
}

func (r *PostRepository) List(ctx context.Context) ([]*models.BlogPost, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.subtitle, p.body, p.image_url, p.date, p.created_at, p.updated_at, u.name
		FROM blog_posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return scanPostRows(rows)
}

// Update rewrites the editable fields of a post. The display date is
// deliberately left alone; an edited post keeps its original date.
func (r *PostRepository) Update(ctx context.Context, id string, post *models.BlogPost) (*models.BlogPost, error) {
	post.UpdatedAt = time.Now()

	query := `
		WITH updated AS (
			UPDATE blog_posts SET title = $1, subtitle = $2, body = $3, image_url = $4, updated_at = $5
			WHERE id = $6
			RETURNING id, author_id, title, subtitle, body, image_url, date, created_at, updated_at
		)
		SELECT up.id, up.author_id, up.title, up.subtitle, up.body, up.image_url, up.date, up.created_at, up.updated_at, u.name
		FROM updated up JOIN users u ON u.id = up.author_id
	`

	return scanPostRow(r.pool.QueryRow(ctx, query,
		post.Title, post.Subtitle, post.Body, post.ImageURL, post.UpdatedAt, id,
	))
}

// Delete removes a post; its comments go with it via the cascading
// foreign key.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM blog_posts WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
