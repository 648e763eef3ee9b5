package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/enthr/ishop-mern/controllers/products"
	"github.com/enthr/ishop-mern/middlewares"
)

func ProductsRoutes(app *fiber.App, pc *controllers.ProductController, auth *middlewares.Auth) {
	app.Get("/api/products", pc.GetAllProducts)
	app.Get("/api/products/top", pc.GetTopProducts)
	app.Post("/api/products", auth.Protect, auth.RequireAdmin, pc.CreateProduct)
	app.Get("/api/products/:id", pc.GetProductById)
	app.Put("/api/products/:id", auth.Protect, auth.RequireAdmin, pc.UpdateProduct)
	app.Delete("/api/products/:id", auth.Protect, auth.RequireAdmin, pc.DeleteProduct)
	app.Post("/api/products/:id/reviews", auth.Protect, pc.CreateProductReview)
}
