package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{ProductID: 1, Price: 500, Quantity: 2},
			{ProductID: 2, Price: 450, Quantity: 3},
		},
	}

	order.CalculateTotal()

	assert.Equal(t, int64(2350), order.TotalAmount)
}

func TestCalculateTotal_Empty(t *testing.T) {
	order := &Order{}
	order.CalculateTotal()
	assert.Zero(t, order.TotalAmount)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "paid", "shipped", "delivered", "cancelled"} {
		assert.True(t, ValidStatus(s), s)
	}

	assert.False(t, ValidStatus("unknown"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Pending"))
}
