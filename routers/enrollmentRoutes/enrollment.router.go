package enrollmentRoutes

import (
	controllers "kavyalearn/controllers/enrollment"
	"kavyalearn/middleware"
	validators "kavyalearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up the enrollment lifecycle routes
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollGroup := app.Group("/enrollment")

	enrollGroup.Post("/create", middleware.JWTMiddleware, validators.CreateEnrollment(), controllers.CreatePendingEnrollment)
	enrollGroup.Post("/activate/:enrollmentId", middleware.JWTMiddleware, validators.ActivateEnrollment(), controllers.ActivateEnrollment)
	enrollGroup.Get("/course/:courseId", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetEnrollmentStatus)
	enrollGroup.Put("/:enrollmentId", middleware.JWTMiddleware, validators.UpdateEnrollment(), controllers.UpdateEnrollment)
	enrollGroup.Post("/unenroll-all", middleware.JWTMiddleware, controllers.UnenrollAll)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
}
