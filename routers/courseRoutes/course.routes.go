package courseRoutes

import (
	controllers "kavyalearn/controllers/course"
	"kavyalearn/middleware"
	validators "kavyalearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog browsing
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetCourseDetails)

	// Gated lesson content
	courseGroup.Get("/:course_id/lesson/:lesson_id", middleware.JWTMiddleware, validators.LessonParams(), controllers.GetLessonContent)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.LessonParams(), controllers.MarkLessonComplete)
	courseGroup.Post("/:course_id/lesson/:lesson_id/quiz/submit", middleware.JWTMiddleware, validators.LessonParams(), controllers.SubmitQuizAnswer)

	// Certificates
	courseGroup.Get("/:id/certificate", middleware.JWTMiddleware, validators.CourseParam(), controllers.DownloadCertificate)

	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
