package adminController

import (
	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats returns platform-wide counts for the admin dashboard
func DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalStudents int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "STUDENT", false).Count(&totalStudents)

	var totalCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)

	var publishedCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)

	var pendingEnrollments, activeEnrollments, completedEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("enrollment_status = ? AND is_deleted = ?", courseModels.EnrollmentStatusPending, false).Count(&pendingEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("enrollment_status = ? AND is_deleted = ?", courseModels.EnrollmentStatusActive, false).Count(&activeEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("enrollment_status = ? AND is_deleted = ?", courseModels.EnrollmentStatusCompleted, false).Count(&completedEnrollments)

	var totalRevenue float64
	db.Model(&models.Payment{}).Where("status = ? AND is_deleted = ?", models.PaymentStatusCompleted, false).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	var recentEnrollments []courseModels.Enrollment
	db.Where("is_deleted = ?", false).Order("created_at desc").Limit(10).Find(&recentEnrollments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched!", fiber.Map{
		"total_students":        totalStudents,
		"total_courses":         totalCourses,
		"published_courses":     publishedCourses,
		"pending_enrollments":   pendingEnrollments,
		"active_enrollments":    activeEnrollments,
		"completed_enrollments": completedEnrollments,
		"total_revenue":         totalRevenue,
		"recent_enrollments":    recentEnrollments,
	})
}
