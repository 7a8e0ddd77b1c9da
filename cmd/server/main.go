package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/martinresplandy/filmhub-project/internal/config"
	"github.com/martinresplandy/filmhub-project/internal/database"
	"github.com/martinresplandy/filmhub-project/internal/handler"
	"github.com/martinresplandy/filmhub-project/internal/lookup"
	"github.com/martinresplandy/filmhub-project/internal/middleware"
	"github.com/martinresplandy/filmhub-project/internal/repository"
	"github.com/martinresplandy/filmhub-project/internal/service"
	"github.com/martinresplandy/filmhub-project/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache and rate limiting", "error", err)
	}

	// Initialize TMDB client and the genre/keyword name index
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Timeout)
	names := lookup.NewIndex()

	// Initialize layers
	movieRepo := repository.NewMovieRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	userRepo := repository.NewUserRepository(db)

	ingestor := service.NewMovieIngestor(movieRepo, tmdbClient, names)
	catalogSvc := service.NewCatalogService(tmdbClient, names, rdb)
	ratingSvc := service.NewRatingService(ratingRepo, ingestor)
	profileSvc := service.NewProfileService(profileRepo, ingestor)
	recommendSvc := service.NewRecommendationService(ratingRepo, profileRepo, ingestor, tmdbClient, names)
	userSvc := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userHandler := handler.NewUserHandler(userSvc)
	movieHandler := handler.NewMovieHandler(catalogSvc, ingestor)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	recommendHandler := handler.NewRecommendationHandler(recommendSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FilmHub Backend",
		ServerHeader: "FilmHub",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	if rdb != nil {
		rateLimiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSeconds)
		app.Use(rateLimiter.Handler())
	}
	app.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", userHandler.Health)
	api.Post("/register", userHandler.Register)
	api.Post("/login", userHandler.Login)
	api.Get("/me", userHandler.Me)

	api.Get("/movies", movieHandler.Catalog)
	api.Get("/movies/watched", profileHandler.ListWatched)
	api.Post("/movies/watched", profileHandler.AddWatched)
	api.Delete("/movies/watched/:external_id", profileHandler.RemoveWatched)
	api.Get("/movies/watch_list", profileHandler.ListWatchList)
	api.Post("/movies/watch_list", profileHandler.AddToWatchList)
	api.Delete("/movies/watch_list/:external_id", profileHandler.RemoveFromWatchList)
	api.Get("/movies/:external_id", movieHandler.GetOrCreate)

	api.Get("/ratings", ratingHandler.List)
	api.Post("/ratings", ratingHandler.Add)
	api.Put("/ratings/:id", ratingHandler.Update)
	api.Delete("/ratings/:id", ratingHandler.Delete)

	api.Get("/recommended_movies", recommendHandler.List)
	api.Post("/recommended_movies/refresh", recommendHandler.Refresh)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down filmhub backend...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting filmhub backend", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
