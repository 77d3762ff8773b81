package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/middleware"
	"github.com/noah-isme/elplano-go-api/internal/scope"
)

const secret = "test-secret"

type stubLoader map[uint]scope.Actor

func (s stubLoader) Load(_ context.Context, userID uint) (scope.Actor, error) {
	if userID == 99 {
		return scope.Anonymous(), apperror.Forbidden("account is banned")
	}
	actor, ok := s[userID]
	if !ok {
		return scope.Anonymous(), apperror.ErrNotFound
	}
	return actor, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func actorApp(auth fiber.Handler) *fiber.App {
	app := fiber.New()
	loader := stubLoader{7: {UserID: 7, StudentID: 70}}
	app.Get("/", auth, middleware.WithActor(loader), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": middleware.Actor(c).UserID, "role": middleware.Actor(c).Role()})
	})
	return app
}

func perform(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestWithActorLoadsTokenSubject(t *testing.T) {
	app := actorApp(middleware.JWTOptional(secret))

	token := signToken(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(time.Hour).Unix()})
	resp := perform(t, app, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = perform(t, app, signToken(t, jwt.MapClaims{"sub": "8"}))
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = perform(t, app, signToken(t, jwt.MapClaims{"user_id": float64(99)}))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestJWTOptionalAllowsAnonymous(t *testing.T) {
	resp := perform(t, actorApp(middleware.JWTOptional(secret)), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = perform(t, actorApp(middleware.JWTProtected(secret)), "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	app := actorApp(middleware.JWTOptional(secret))

	expired := signToken(t, jwt.MapClaims{"sub": "7", "exp": time.Now().Add(-time.Hour).Unix()})
	require.Equal(t, fiber.StatusUnauthorized, perform(t, app, expired).StatusCode)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"}).SignedString([]byte("other"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, perform(t, app, forged).StatusCode)

	require.Equal(t, fiber.StatusUnauthorized, perform(t, app, signToken(t, jwt.MapClaims{"role": "admin"})).StatusCode)
}
