package parentController

import (
	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetStudents returns the parent's linked student accounts with a summary of
// each student's enrollments and progress
func GetStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var students []models.User
	if err := db.Where("parent_id = ? AND is_deleted = ?", userID, false).Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	type StudentSummary struct {
		ID          uint                      `json:"id"`
		Name        string                    `json:"name"`
		Email       string                    `json:"email"`
		Enrollments []courseModels.Enrollment `json:"enrollments"`
	}

	result := make([]StudentSummary, len(students))
	for i, student := range students {
		var enrollments []courseModels.Enrollment
		db.Where("user_id = ? AND is_deleted = ?", student.ID, false).Find(&enrollments)
		result[i] = StudentSummary{
			ID:          student.ID,
			Name:        student.Name,
			Email:       student.Email,
			Enrollments: enrollments,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", fiber.Map{
		"students": result,
	})
}
