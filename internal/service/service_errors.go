package service

import (
	"errors"
	"fmt"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
)

var (
	// ErrEmptyCart rejects placement from a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty, nothing to order")

	// ErrForbidden is returned when a requester does not own the
	// resource they are trying to read or mutate.
	ErrForbidden = errors.New("resource does not belong to user")

	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrNegativeStock      = errors.New("stock quantity cannot be negative")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// InsufficientStockError carries the offending product and its committed
// availability so clients can display both. It matches
// repository.ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Product   string
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. Available: %d", e.Product, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == repository.ErrInsufficientStock
}
