package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/elplano-go-api/internal/scope"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

// RequireRole ensures the actor holds one of the allowed roles.
func RequireRole(roles ...scope.Role) fiber.Handler {
	allowed := make(map[scope.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		if !actor.Authenticated() {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if _, ok := allowed[actor.Role()]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
