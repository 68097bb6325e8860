package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calebmartin/inkwell/internal/auth"
	"github.com/calebmartin/inkwell/internal/config"
	"github.com/calebmartin/inkwell/internal/database"
	"github.com/calebmartin/inkwell/internal/handlers"
	middlewareCustom "github.com/calebmartin/inkwell/internal/middleware"
	"github.com/calebmartin/inkwell/internal/repositories"
	"github.com/calebmartin/inkwell/internal/routes"
	"github.com/calebmartin/inkwell/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		err := db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.SecretKey,
		cfg.Auth.TokenExpiry,
		cfg.Auth.SessionExpiry,
	)

	// Select the mail relay
	var mailer services.Mailer
	switch cfg.Mail.Provider {
	case "ses":
		sesMailer, err := services.NewSESMailer(context.Background(), cfg.Mail.AWSRegion, cfg.Mail.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize SES mailer", slog.Any("error", err))
			os.Exit(1)
		}
		mailer = sesMailer
	default:
		mailer = services.NewSMTPMailer(cfg.Mail, logger)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, mailer, logger, cfg.Server.BaseURL)
	postService := services.NewPostService(postRepo, logger)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, logger)
	contactService := services.NewContactService(mailer, cfg.Mail.OwnerAddress, logger)

	// Bootstrap the admin account if configured
	adminCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(adminCtx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	// Initialize handlers
	cookieConfig := auth.CookieConfig{
		Secure:   cfg.Server.Env == "production",
		SameSite: "lax",
	}
	sessionMaxAge := int(cfg.Auth.SessionExpiry.Seconds())

	authHandler := handlers.NewAuthHandler(authService, cookieConfig, sessionMaxAge)
	postHandler := handlers.NewPostHandler(postService, commentService)
	commentHandler := handlers.NewCommentHandler(commentService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(cfg.Server.Env))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.CORSOrigins)))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, authHandler, postHandler, commentHandler, contactHandler, tokenManager, userRepo)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
