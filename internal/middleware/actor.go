package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/scope"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

const actorLocal = "actor"

// ActorLoader builds the actor for a user id.
type ActorLoader interface {
	Load(ctx context.Context, userID uint) (scope.Actor, error)
}

// WithActor resolves the caller into a scope.Actor once per request. Callers
// without a token become the anonymous actor; banned or deleted accounts are
// rejected.
func WithActor(loader ActorLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == 0 {
			c.Locals(actorLocal, scope.Anonymous())
			return c.Next()
		}

		actor, err := loader.Load(c.UserContext(), userID)
		if apperror.IsNotFound(err) {
			return utils.SendError(c, fiber.StatusUnauthorized, "unknown user")
		}
		if err != nil {
			return utils.SendAppError(c, err)
		}

		c.Locals(actorLocal, actor)
		return c.Next()
	}
}

// Actor returns the actor WithActor stored, or the anonymous actor.
func Actor(c *fiber.Ctx) scope.Actor {
	if actor, ok := c.Locals(actorLocal).(scope.Actor); ok {
		return actor
	}
	return scope.Anonymous()
}

// RequireUser rejects anonymous callers.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Actor(c).Authenticated() {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}
