package paymentRoutes

import (
	controllers "kavyalearn/controllers/payment"
	"kavyalearn/middleware"
	validators "kavyalearn/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/record", middleware.JWTMiddleware, validators.RecordPayment(), controllers.RecordPayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, controllers.GetPaymentHistory)
}
