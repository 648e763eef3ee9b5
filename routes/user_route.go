package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/enthr/ishop-mern/controllers/user"
	"github.com/enthr/ishop-mern/middlewares"
)

func UserRoutes(app *fiber.App, uc *controllers.UserController, auth *middlewares.Auth) {
	app.Post("/api/users", uc.SignUp)
	app.Post("/api/users/login", uc.SignIn)
	app.Get("/api/users/profile", auth.Protect, uc.GetProfile)
	app.Put("/api/users/profile", auth.Protect, uc.UpdateProfile)

	app.Get("/api/users", auth.Protect, auth.RequireAdmin, uc.ListUsers)
	app.Get("/api/users/:id", auth.Protect, auth.RequireAdmin, uc.GetUserById)
	app.Put("/api/users/:id", auth.Protect, auth.RequireAdmin, uc.UpdateUser)
	app.Delete("/api/users/:id", auth.Protect, auth.RequireAdmin, uc.DeleteUser)
}
