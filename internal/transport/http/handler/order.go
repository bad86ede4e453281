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

type OrderHandler struct {
	svc      service.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(svc service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// Create places an order from the caller's cart. The request has no body:
// the cart is the input.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 5*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	order, err := h.svc.PlaceOrder(ctx, userID)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"place order failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	applog.Info(
		ctx,
		h.logger,
		"place order succeeded",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
	)

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	order, err := h.svc.GetOrderByID(ctx, userID, orderID, middleware.IsAdmin(c))
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"get order failed",
			zap.Int64("order_id", orderID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	orders, err := h.svc.GetUserOrders(ctx, userID)
	if err != nil {
		applog.Warn(ctx, h.logger, "list orders failed", zap.Int64("user_id", userID), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"orders": orders,
	})
}

func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, time.Second)
	defer cancel()

	orders, err := h.svc.GetAllOrders(ctx)
	if err != nil {
		applog.Warn(ctx, h.logger, "list all orders failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"orders": orders,
	})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	orderID, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	input := new(UpdateStatusInput)
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

	order, err := h.svc.UpdateOrderStatus(ctx, orderID, input.Status)
	if err != nil {
		applog.Warn(
			ctx,
			h.logger,
			"update order status failed",
			zap.Int64("order_id", orderID),
			zap.String("status", input.Status),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(order)
}
