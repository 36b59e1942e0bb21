package messageRoutes

import (
	controllers "kavyalearn/controllers/message"
	"kavyalearn/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupMessageRoutes(app *fiber.App) {
	messageGroup := app.Group("/support")

	messageGroup.Post("/thread", middleware.JWTMiddleware, controllers.CreateThread)
	messageGroup.Get("/thread/list", middleware.JWTMiddleware, controllers.ListThreads)
	messageGroup.Post("/thread/:id/reply", middleware.JWTMiddleware, controllers.ReplyToThread)
	messageGroup.Patch("/thread/:id/close", middleware.JWTMiddleware, controllers.CloseThread)
}
