package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/calebmartin/inkwell/internal/models"
	"github.com/calebmartin/inkwell/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := SetupTestDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping integration tests: %v\n", err)
		os.Exit(0)
	}
	testDB = db

	code := m.Run()

	testDB.Teardown(ctx)
	os.Exit(code)
}

func cleanTables(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.CleanupTables(context.Background()))
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()

	repo := repositories.NewUserRepository(testDB.DB)
	user, err := repo.Create(context.Background(), &models.User{
		Email:        email,
		PasswordHash: "$2a$12$not.a.real.hash.but.fine.for.fk.rows",
		Name:         "Test User",
	})
	require.NoError(t, err)
	return user
}

func createTestPost(t *testing.T, authorID, title string) *models.BlogPost {
	t.Helper()

	repo := repositories.NewPostRepository(testDB.DB)
	post, err := repo.Create(context.Background(), &models.BlogPost{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "subtitle",
		Body:     "<p>body</p>",
		ImageURL: "https://example.com/img.jpg",
		Date:     "January 2, 2006",
	})
	require.NoError(t, err)
	return post
}

func TestUserRepository_DuplicateEmailCaseInsensitive(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB)

	createTestUser(t, "jane@example.com")

	_, err := repo.Create(ctx, &models.User{
		Email:        "JANE@Example.COM",
		PasswordHash: "hash",
		Name:         "Jane Again",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestUserRepository_GetByEmailCaseInsensitive(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB)

	created := createTestUser(t, "jane@example.com")

	got, err := repo.GetByEmail(ctx, "Jane@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_MarkVerified(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB)

	user := createTestUser(t, "jane@example.com")
	assert.False(t, user.EmailVerified)

	require.NoError(t, repo.MarkVerified(ctx, user.ID))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	// Marking twice is fine
	require.NoError(t, repo.MarkVerified(ctx, user.ID))

	assert.ErrorIs(t, repo.MarkVerified(ctx, uuid.New().String()), models.ErrNotFound)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB)

	user := createTestUser(t, "jane@example.com")

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestPostRepository_CRUD(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repositories.NewPostRepository(testDB.DB)

	author := createTestUser(t, "author@example.com")
	post := createTestPost(t, author.ID, "First Post")

	t.Run("create joins author name", func(t *testing.T) {
		assert.Equal(t, "Test User", post.AuthorName)
	})

	t.Run("duplicate title", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.BlogPost{
			AuthorID: author.ID,
			Title:    "First Post",
			Subtitle: "again",
			Body:     "b",
			ImageURL: "https://example.com/i.jpg",
			Date:     "January 2, 2006",
		})
		assert.ErrorIs(t, err, models.ErrDuplicateTitle)
	})

	t.Run("list newest first", func(t *testing.T) {
		second := createTestPost(t, author.ID, "Second Post")

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, second.ID, posts[0].ID)
		assert.Equal(t, post.ID, posts[1].ID)
	})

	t.Run("update keeps date", func(t *testing.T) {
		updated, err := repo.Update(ctx, post.ID, &models.BlogPost{
			Title:    "First Post, Edited",
			Subtitle: "new subtitle",
			Body:     "<p>edited</p>",
			ImageURL: "https://example.com/new.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, "First Post, Edited", updated.Title)
		assert.Equal(t, post.Date, updated.Date)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, post.ID))

		_, err := repo.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, post.ID), models.ErrNotFound)
	})
}

func TestCommentRepository_CascadeAndOrdering(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	postRepo := repositories.NewPostRepository(testDB.DB)
	commentRepo := repositories.NewCommentRepository(testDB.DB)

	author := createTestUser(t, "author@example.com")
	commenter := createTestUser(t, "reader@example.com")
	post := createTestPost(t, author.ID, "Commented Post")

	first, err := commentRepo.Create(ctx, &models.Comment{
		PostID:   post.ID,
		AuthorID: commenter.ID,
		Text:     "first!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Test User", first.AuthorName)

	_, err = commentRepo.Create(ctx, &models.Comment{
		PostID:   post.ID,
		AuthorID: commenter.ID,
		Text:     "second",
	})
	require.NoError(t, err)

	comments, err := commentRepo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)

	// Deleting the post removes its comments
	require.NoError(t, postRepo.Delete(ctx, post.ID))

	comments, err = commentRepo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
