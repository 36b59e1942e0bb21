package notificationRoutes

import (
	controllers "kavyalearn/controllers/notification"
	"kavyalearn/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notification")

	notificationGroup.Get("/list", middleware.JWTMiddleware, controllers.GetNotifications)
	notificationGroup.Patch("/:id/read", middleware.JWTMiddleware, controllers.MarkNotificationRead)
}
