package handler

import (
	"strconv"
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/service"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/applog"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	svc      service.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductHandler(svc service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

type CreateProductInput struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Description   string `json:"description" validate:"max=1000"`
	Price         int64  `json:"price" validate:"required,gt=0"`
	StockQuantity int64  `json:"stock_quantity" validate:"gte=0"`
}

type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
}

type SetStockInput struct {
	Quantity int64 `json:"quantity" validate:"gte=0"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	input := new(CreateProductInput)
	if err := c.BodyParser(input); err != nil {
		applog.Warn(ctx, h.logger, "failed to parse body in create", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	product := &domain.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
	}

	id, err := h.svc.Create(ctx, product)
	if err != nil {
		applog.Warn(ctx, h.logger, "create product failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     id,
		"status": "success",
	})
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, time.Second)
	defer cancel()

	id, err := pathID(c, "id")
	if err != nil {
		applog.Warn(ctx, h.logger, "invalid product id", zap.String("id", c.Params("id")))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	product, err := h.svc.FindByID(ctx, id)
	if err != nil {
		applog.Warn(ctx, h.logger, "find by id failed", zap.Int64("id", id), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, time.Second)
	defer cancel()

	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	search := c.Query("search")

	products, total, err := h.svc.List(ctx, limit, offset, search)
	if err != nil {
		applog.Warn(ctx, h.logger, "list products failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"products":    products,
		"total_count": total,
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	input := new(UpdateProductInput)
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

	err = h.svc.Update(ctx, id, &domain.UpdateProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	})
	if err != nil {
		applog.Warn(ctx, h.logger, "update product failed", zap.Int64("id", id), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}

func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	input := new(SetStockInput)
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

	if err := h.svc.SetStock(ctx, id, input.Quantity); err != nil {
		applog.Warn(ctx, h.logger, "set stock failed", zap.Int64("id", id), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	ctx, cancel := requestCtx(c, 3*time.Second)
	defer cancel()

	id, err := pathID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid id",
		})
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		applog.Warn(ctx, h.logger, "delete product failed", zap.Int64("id", id), zap.Error(err))
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}
