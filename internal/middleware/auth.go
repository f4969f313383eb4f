package middleware

import (
	"strings"

	"seedfund-backend/internal/auth"
	"seedfund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth validates the Authorization bearer token and stores the claims
// in Locals. Returns 401 with the standard error format on failure.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return response.Unauthorized(c, "Token not provided")
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		c.Locals(userLocal, claims)
		return c.Next()
	}
}

// RequireRole ensures the authenticated user has the given role. Mount after
// RequireAuth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		if actor.Role != role {
			return response.Error(c, "Forbidden for role "+actor.Role, fiber.StatusForbidden)
		}
		return c.Next()
	}
}

// GetActor returns the authenticated claims from Locals (nil if not logged in).
func GetActor(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(userLocal).(*auth.Claims)
	return claims
}
