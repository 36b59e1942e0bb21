package parentRoutes

import (
	controllers "kavyalearn/controllers/parent"
	"kavyalearn/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupParentRoutes(app *fiber.App) {
	parentGroup := app.Group("/parent")

	parentGroup.Get("/students", middleware.JWTMiddleware, middleware.RequireRoles("PARENT"), controllers.GetStudents)
}
