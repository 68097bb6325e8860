package routes

import (
	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/handlers"
	"github.com/calebmartin/inkwell/internal/repositories"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	contactHandler *handlers.ContactHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	// Every request resolves the session cookie; public routes just see
	// an unauthenticated context.
	router.Use(auth.Session(tokenManager))

	// Public routes
	router.Post("/auth/register", authHandler.Register)
	router.Get("/auth/confirm-email", authHandler.ConfirmEmail)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/logout", authHandler.Logout)
	router.Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	router.Get("/posts", postHandler.List)
	router.Get("/posts/{postID}", postHandler.Get)

	router.Post("/contact", contactHandler.Submit)

	// Logged-in users can comment and remove their own comments
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/posts/{postID}/comments", commentHandler.Create)
		r.Delete("/comments/{commentID}", commentHandler.Delete)
	})

	// Post authoring is admin-only
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(userRepo))
		r.Post("/posts", postHandler.Create)
		r.Put("/posts/{postID}", postHandler.Update)
		r.Delete("/posts/{postID}", postHandler.Delete)
	})
}
