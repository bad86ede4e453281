package http

import (
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/transport/http/handler"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/transport/http/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, jwtSecret string) {
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/register-admin", h.Auth.RegisterAdmin)
	authGroup.Post("/login", h.Auth.Login)

	requireAuth := middleware.NewAuthMiddleware(jwtSecret)
	requireAdmin := middleware.NewAdminMiddleware()

	product := api.Group("/products")
	product.Get("", h.Product.List)
	product.Get("/:id", h.Product.FindByID)
	product.Post("", requireAuth, requireAdmin, h.Product.Create)
	product.Put("/:id", requireAuth, requireAdmin, h.Product.Update)
	product.Patch("/:id/stock", requireAuth, requireAdmin, h.Product.SetStock)
	product.Delete("/:id", requireAuth, requireAdmin, h.Product.Delete)

	cart := api.Group("/cart", requireAuth)
	cart.Get("", h.Cart.GetCart)
	cart.Post("/items", h.Cart.AddItem)
	cart.Put("/items/:itemId", h.Cart.UpdateItem)
	cart.Delete("/items/:itemId", h.Cart.RemoveItem)
	cart.Delete("/clear", h.Cart.Clear)

	order := api.Group("/orders", requireAuth)
	order.Get("/admin/all", requireAdmin, h.Order.ListAll)
	order.Patch("/admin/:id/status", requireAdmin, h.Order.UpdateStatus)
	order.Post("", h.Order.Create)
	order.Get("", h.Order.ListMine)
	order.Get("/:id", h.Order.GetByID)
}
