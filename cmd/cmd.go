package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resto-reviews-backend/internal/config"
	"resto-reviews-backend/internal/handlers"
	"resto-reviews-backend/internal/middleware"
	"resto-reviews-backend/internal/objectstore"
	"resto-reviews-backend/internal/repository"
	"resto-reviews-backend/internal/searchindex"
	"resto-reviews-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Open the search index; one owner per process, closed at shutdown
	index, err := searchindex.Open(cfg.Index.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open search index")
	}
	defer index.Close()
	log.Info().Str("path", cfg.Index.Path).Msg("Search index opened")

	// Object store; its connectivity probe is advisory and never fatal
	objects, err := objectstore.New(
		context.Background(),
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKey,
		cfg.S3.SecretKey,
		cfg.S3.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object store client")
	}

	// Initialize repositories
	restaurantRepo := repository.NewRestaurantRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	photoRepo := repository.NewPlatPhotoRepository(db)

	// Initialize services
	restaurantService := services.NewRestaurantService(restaurantRepo, evaluationRepo, objects)
	evaluationService := services.NewEvaluationService(evaluationRepo, restaurantRepo, photoRepo, objects, index)

	// Initialize handlers
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService)
	evaluationHandler := handlers.NewEvaluationHandler(evaluationService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/restaurant", func(r chi.Router) {
		// Public routes
		r.Get("/", restaurantHandler.List)

		// Protected restaurant routes; the admin-only policy is enforced
		// by the services
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
			r.Post("/", restaurantHandler.Create)
			r.Get("/{restaurantId}", restaurantHandler.Get)
			r.Put("/{restaurantId}", restaurantHandler.Update)
			r.Put("/{restaurantId}/image", restaurantHandler.UpdateImage)
		})

		r.Route("/{restaurantId}/evaluation", func(r chi.Router) {
			// Public routes
			r.Get("/", evaluationHandler.List)
			r.Get("/search", evaluationHandler.Search)
			r.Get("/{evaluationId}", evaluationHandler.Get)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
				r.Post("/", evaluationHandler.Create)
				r.Put("/{evaluationId}/upload-urls", evaluationHandler.UploadURLs)
				r.Delete("/{evaluationId}", evaluationHandler.Delete)
			})
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
