package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/enthr/ishop-mern/controllers/orders"
	"github.com/enthr/ishop-mern/middlewares"
)

func OrderRoutes(app *fiber.App, oc *controllers.OrderController, auth *middlewares.Auth) {
	app.Post("/api/orders", auth.Protect, oc.CreateOrder)
	app.Get("/api/orders", auth.Protect, auth.RequireAdmin, oc.GetAllOrders)
	app.Get("/api/orders/myorders", auth.Protect, oc.GetMyOrders)
	app.Get("/api/orders/:id", auth.Protect, oc.GetOrderById)
	app.Put("/api/orders/:id/pay", auth.Protect, oc.UpdateOrderToPaid)
	app.Put("/api/orders/:id/deliver", auth.Protect, auth.RequireAdmin, oc.UpdateOrderToDelivered)
}
