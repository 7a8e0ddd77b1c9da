package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/martinresplandy/filmhub-project/internal/middleware"
	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/service"
)

// UserHandler handles registration, login and the profile endpoint.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Health returns service health status.
func (h *UserHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "filmhub-backend",
	})
}

// Register creates a new user account.
// POST /api/v1/register
func (h *UserHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.svc.Register(req)
	if err != nil {
		slog.Warn("registration failed", "username", req.Username, "error", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login verifies credentials and issues a token.
// POST /api/v1/login
func (h *UserHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.svc.Login(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// Me returns the authenticated user.
// GET /api/v1/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	user, err := h.svc.GetUser(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
