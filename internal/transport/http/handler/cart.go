package handler

import (
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/service"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/transport/http/middleware"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CartHandler struct {
	svc      service.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCartHandler(svc service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

type AddItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1"`
}

type UpdateItemInput struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	cart, err := h.svc.GetCart(ctx, userID)
	if err != nil {
		applog.Warn(ctx, h.logger, "get cart failed", zap.Int64("user_id", userID), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(cart)
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	input := new(AddItemInput)
	if err := c.BodyParser(input); err != nil {
		applog.Warn(ctx, h.logger, "failed to parse body in add item", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	cart, err := h.svc.AddItem(ctx, userID, input.ProductID, input.Quantity)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"add item failed",
			zap.Int64("user_id", userID),
			zap.Int64("product_id", input.ProductID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(cart)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	itemID, err := pathID(c, "itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid item id",
		})
	}

	input := new(UpdateItemInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	cart, err := h.svc.UpdateItemQuantity(ctx, userID, itemID, input.Quantity)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"update cart item failed",
			zap.Int64("user_id", userID),
			zap.Int64("item_id", itemID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(cart)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	itemID, err := pathID(c, "itemId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid item id",
		})
	}

	cart, err := h.svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"remove cart item failed",
			zap.Int64("user_id", userID),
			zap.Int64("item_id", itemID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(cart)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	if err := h.svc.Clear(ctx, userID); err != nil {
		applog.Warn(ctx, h.logger, "clear cart failed", zap.Int64("user_id", userID), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}
