package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

func requestCtx(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), timeout)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}
