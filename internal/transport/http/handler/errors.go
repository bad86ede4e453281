package handler

import (
	"errors"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/service"
	"github.com/gofiber/fiber/v2"
)

// httpStatusFromError maps service and repository errors onto HTTP codes.
// Anything unmapped is an internal error and must not leak details.
func httpStatusFromError(err error) int {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrUserExists):
		return fiber.StatusConflict

	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden

	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized

	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrNegativeStock):
		return fiber.StatusBadRequest

	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := httpStatusFromError(err)

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}
