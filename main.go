package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/enthr/ishop-mern/configs"
	orderControllers "github.com/enthr/ishop-mern/controllers/orders"
	productControllers "github.com/enthr/ishop-mern/controllers/products"
	userControllers "github.com/enthr/ishop-mern/controllers/user"
	"github.com/enthr/ishop-mern/metrics"
	"github.com/enthr/ishop-mern/middlewares"
	"github.com/enthr/ishop-mern/routes"
	"github.com/enthr/ishop-mern/store"
	"github.com/enthr/ishop-mern/token"
)

func main() {
	_ = godotenv.Load()

	client := configs.ConnectDB()

	users := store.NewMongoUserStore(configs.GetCollection(client, "users"))
	products := store.NewMongoProductStore(configs.GetCollection(client, "products"))
	orders := store.NewMongoOrderStore(configs.GetCollection(client, "orders"))

	issuer := token.NewIssuer(configs.EnvJWTSecret())
	auth := middlewares.NewAuth(users, issuer)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	serverMetrics := metrics.NewServerMetrics("api")
	app.Use(serverMetrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	routes.UserRoutes(app, userControllers.NewUserController(users, issuer), auth)
	routes.ProductsRoutes(app, productControllers.NewProductController(products), auth)
	routes.OrderRoutes(app, orderControllers.NewOrderController(orders), auth)

	log.Fatal(app.Listen(":" + configs.EnvPort()))
}
