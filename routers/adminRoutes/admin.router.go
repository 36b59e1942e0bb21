package adminRoutes

import (
	adminController "kavyalearn/controllers/admin"
	courseController "kavyalearn/controllers/course"
	enrollmentController "kavyalearn/controllers/enrollment"
	paymentController "kavyalearn/controllers/payment"
	"kavyalearn/middleware"
	courseValidator "kavyalearn/validators/course"
	enrollmentValidator "kavyalearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up course management, enrollment administration and
// reporting routes. Everything here sits behind a role check on top of JWT.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	staff := middleware.RequireRoles("ADMIN", "SUB-ADMIN", "INSTRUCTOR")
	admins := middleware.RequireRoles("ADMIN", "SUB-ADMIN")

	// Course management
	adminGroup.Post("/course", middleware.JWTMiddleware, staff, courseValidator.CreateCourseAdmin(), courseController.AdminCreateCourse)
	adminGroup.Get("/course/list", middleware.JWTMiddleware, staff, courseController.AdminGetAllCourses)
	adminGroup.Put("/course/:id", middleware.JWTMiddleware, staff, courseValidator.UpdateCourseAdmin(), courseController.AdminUpdateCourse)
	adminGroup.Patch("/course/:id/publish", middleware.JWTMiddleware, staff, courseValidator.CourseParam(), courseController.AdminPublishCourse)
	adminGroup.Delete("/course/:id", middleware.JWTMiddleware, admins, courseValidator.CourseParam(), courseController.AdminDeleteCourse)
	adminGroup.Get("/course/:id/enrollments", middleware.JWTMiddleware, staff, courseValidator.CourseParam(), courseController.AdminGetCourseEnrollments)

	// Lesson management
	adminGroup.Post("/course/:id/lesson", middleware.JWTMiddleware, staff, courseValidator.CreateLesson(), courseController.AdminCreateLesson)
	adminGroup.Put("/lesson/:lesson_id", middleware.JWTMiddleware, staff, courseValidator.UpdateLesson(), courseController.AdminUpdateLesson)
	adminGroup.Patch("/lesson/:lesson_id/publish", middleware.JWTMiddleware, staff, courseValidator.LessonParam(), courseController.AdminPublishLesson)
	adminGroup.Delete("/lesson/:lesson_id", middleware.JWTMiddleware, staff, courseValidator.LessonParam(), courseController.AdminDeleteLesson)
	adminGroup.Post("/lesson/:lesson_id/quiz", middleware.JWTMiddleware, staff, courseValidator.CreateQuizQuestion(), courseController.AdminCreateQuizQuestion)

	// Enrollment administration
	adminGroup.Post("/enrollment", middleware.JWTMiddleware, admins, enrollmentValidator.FreeEnrollment(), enrollmentController.CreateFreeEnrollment)

	// Payments and reporting
	adminGroup.Get("/payments", middleware.JWTMiddleware, admins, paymentController.AdminGetPayments)
	adminGroup.Get("/dashboard/stats", middleware.JWTMiddleware, admins, adminController.DashboardStats)
}
