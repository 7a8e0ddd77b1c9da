package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/martinresplandy/filmhub-project/internal/middleware"
	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/service"
)

// RatingHandler handles the rating endpoints.
type RatingHandler struct {
	svc *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// List returns the caller's ratings.
// GET /api/v1/ratings
func (h *RatingHandler) List(c fiber.Ctx) error {
	ratings, err := h.svc.ListRatings(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ratings)
}

// Add rates a movie by external id.
// POST /api/v1/ratings
func (h *RatingHandler) Add(c fiber.Ctx) error {
	var req models.AddRatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	rating, err := h.svc.AddRating(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// Update changes an existing rating.
// PUT /api/v1/ratings/:id
func (h *RatingHandler) Update(c fiber.Ctx) error {
	ratingID := fiber.Params[int](c, "id")
	if ratingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid rating ID"})
	}

	var req models.UpdateRatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	rating, err := h.svc.UpdateRating(c.Context(), middleware.UserID(c), ratingID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rating)
}

// Delete removes an existing rating.
// DELETE /api/v1/ratings/:id
func (h *RatingHandler) Delete(c fiber.Ctx) error {
	ratingID := fiber.Params[int](c, "id")
	if ratingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid rating ID"})
	}

	if err := h.svc.DeleteRating(c.Context(), middleware.UserID(c), ratingID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
