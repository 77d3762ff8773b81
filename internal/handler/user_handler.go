package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/service"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

// UserHandler serves public account registration.
type UserHandler struct {
	registration service.RegistrationService
	logger       zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(registration service.RegistrationService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		registration: registration,
		logger:       logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches /users routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Post("", h.register)
}

func (h *UserHandler) register(c *fiber.Ctx) error {
	var payload dto.RegistrationRequest
	if err := parseBody(c, &payload); err != nil {
		return respond(c, h.logger, err)
	}
	user, err := h.registration.Register(c.UserContext(), payload)
	if err != nil {
		return respond(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", user)
}
