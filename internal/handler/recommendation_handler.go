package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/martinresplandy/filmhub-project/internal/middleware"
	"github.com/martinresplandy/filmhub-project/internal/service"
)

// RecommendationHandler handles the recommended-movies endpoints.
type RecommendationHandler struct {
	svc *service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// List returns the caller's recommended movies. An empty set triggers one
// refresh unless ?refresh=never is passed; this lazy fill is a handler
// policy, the store itself never refreshes on read.
// GET /api/v1/recommended_movies
func (h *RecommendationHandler) List(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	movies, err := h.svc.GetRecommended(userID)
	if err != nil {
		return respondError(c, err)
	}

	if len(movies) == 0 && c.Query("refresh", "auto") != "never" {
		slog.Debug("recommended set empty, refreshing", "user_id", userID)
		movies, err = h.svc.Refresh(c.Context(), userID)
		if err != nil {
			return respondError(c, err)
		}
	}

	return c.JSON(movies)
}

// Refresh recomputes the caller's recommended movies.
// POST /api/v1/recommended_movies/refresh
func (h *RecommendationHandler) Refresh(c fiber.Ctx) error {
	movies, err := h.svc.Refresh(c.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error("recommendation refresh failed", "user_id", middleware.UserID(c), "error", err)
		return respondError(c, err)
	}
	return c.JSON(movies)
}
