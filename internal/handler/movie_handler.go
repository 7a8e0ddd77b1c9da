package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/martinresplandy/filmhub-project/internal/service"
)

// MovieHandler serves the catalog, search and get-or-create endpoints.
type MovieHandler struct {
	catalog  *service.CatalogService
	ingestor *service.MovieIngestor
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(catalog *service.CatalogService, ingestor *service.MovieIngestor) *MovieHandler {
	return &MovieHandler{catalog: catalog, ingestor: ingestor}
}

// Catalog returns the sectioned catalog listing, or search results when a
// query is present.
// GET /api/v1/movies?q=...&type=title|genre|director
func (h *MovieHandler) Catalog(c fiber.Ctx) error {
	if query := c.Query("q"); query != "" {
		entries, err := h.catalog.Search(c.Context(), query, c.Query("type", "title"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"results": entries})
	}

	resp, err := h.catalog.Catalog(c.Context())
	if err != nil {
		slog.Error("failed to build catalog", "error", err)
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetOrCreate returns the local movie for an external id, materializing it
// on first reference.
// GET /api/v1/movies/:external_id
func (h *MovieHandler) GetOrCreate(c fiber.Ctx) error {
	externalID := fiber.Params[int](c, "external_id")
	if externalID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	movie, err := h.ingestor.Materialize(c.Context(), externalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(movie)
}
