package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// userIDKey is the Locals key the auth middleware stores the caller's id
// under.
const userIDKey = "user_id"

// AuthMiddleware validates the Bearer JWT and stores the caller's user id
// in the request locals. Public paths (health, register, login, swagger)
// bypass authentication.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	publicPrefixes := []string{
		"/api/v1/health",
		"/api/v1/register",
		"/api/v1/login",
		"/swagger",
	}
	secret := []byte(jwtSecret)

	return func(c fiber.Ctx) error {
		path := c.Path()

		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		userID, err := strconv.Atoi(claims.Subject)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token subject",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by AuthMiddleware, or 0
// when the request is unauthenticated.
func UserID(c fiber.Ctx) int {
	if id, ok := c.Locals(userIDKey).(int); ok {
		return id
	}
	return 0
}
