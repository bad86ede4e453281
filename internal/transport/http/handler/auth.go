package handler

import (
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/service"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc      service.AuthService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthHandler(svc service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	return h.register(c, false)
}

func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	return h.register(c, true)
}

func (h *AuthHandler) register(c *fiber.Ctx, admin bool) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		applog.Warn(ctx, h.logger, "failed to parse body in register", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	registerFn := h.svc.Register
	if admin {
		registerFn = h.svc.RegisterAdmin
	}

	user, err := registerFn(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"register failed",
			zap.String("username", input.Username),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		applog.Warn(ctx, h.logger, "failed to parse body in login", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	token, user, err := h.svc.Login(ctx, input.Username, input.Password)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"login failed",
			zap.String("username", input.Username),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
