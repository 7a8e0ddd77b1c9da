package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/martinresplandy/filmhub-project/internal/middleware"
	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/service"
)

// ProfileHandler handles the watched and watch-list endpoints.
type ProfileHandler struct {
	svc *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// ListWatched returns the caller's watched movies.
// GET /api/v1/movies/watched
func (h *ProfileHandler) ListWatched(c fiber.Ctx) error {
	movies, err := h.svc.ListWatched(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movies)
}

// AddWatched marks a movie as watched.
// POST /api/v1/movies/watched
func (h *ProfileHandler) AddWatched(c fiber.Ctx) error {
	req, ok := bindWatchRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	movie, err := h.svc.AddWatched(c.Context(), middleware.UserID(c), req.ExternalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// RemoveWatched unmarks a watched movie.
// DELETE /api/v1/movies/watched/:external_id
func (h *ProfileHandler) RemoveWatched(c fiber.Ctx) error {
	externalID := fiber.Params[int](c, "external_id")
	if externalID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	if err := h.svc.RemoveWatched(c.Context(), middleware.UserID(c), externalID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListWatchList returns the caller's watch list.
// GET /api/v1/movies/watch_list
func (h *ProfileHandler) ListWatchList(c fiber.Ctx) error {
	movies, err := h.svc.ListWatchList(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movies)
}

// AddToWatchList puts a movie on the watch list.
// POST /api/v1/movies/watch_list
func (h *ProfileHandler) AddToWatchList(c fiber.Ctx) error {
	req, ok := bindWatchRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	movie, err := h.svc.AddToWatchList(c.Context(), middleware.UserID(c), req.ExternalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// RemoveFromWatchList takes a movie off the watch list.
// DELETE /api/v1/movies/watch_list/:external_id
func (h *ProfileHandler) RemoveFromWatchList(c fiber.Ctx) error {
	externalID := fiber.Params[int](c, "external_id")
	if externalID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	if err := h.svc.RemoveFromWatchList(c.Context(), middleware.UserID(c), externalID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func bindWatchRequest(c fiber.Ctx) (models.WatchRequest, bool) {
	var req models.WatchRequest
	if err := c.Bind().JSON(&req); err != nil || req.ExternalID <= 0 {
		return req, false
	}
	return req, true
}
