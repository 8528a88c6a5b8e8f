package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/frychicken/internal/config"
	"github.com/example/frychicken/internal/utils"
)

const actorContextKey = "currentActor"

// AuthMiddleware validates JWT tokens and loads the authenticated actor into
// context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(actorContextKey, claims)
		return c.Next()
	}
}

// RequireRoles rejects callers whose token role is not in the allowed set.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetCurrentActor(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// GetCurrentActor extracts the authenticated actor from context.
func GetCurrentActor(c *fiber.Ctx) (*utils.TokenClaims, bool) {
	value := c.Locals(actorContextKey)
	if value == nil {
		return nil, false
	}

	if claims, ok := value.(*utils.TokenClaims); ok {
		return claims, true
	}
	return nil, false
}

// GetCurrentUserID extracts just the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	claims, ok := GetCurrentActor(c)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
