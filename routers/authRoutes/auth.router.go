package authRoutes

import (
	authControllers "kavyalearn/controllers/auth"
	authValidators "kavyalearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authControllers.Login)
	authGroup.Post("/verify/email", authControllers.VerifyEmail)
}
