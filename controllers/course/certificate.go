package courseController

import (
	"log"
	"time"

	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"
	"kavyalearn/utils"

	"github.com/gofiber/fiber/v2"
)

// issueCertificate creates a certificate for a completed enrollment if one
// does not already exist
func issueCertificate(userID, courseID, enrollmentID uint) {
	db := database.Database.Db

	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return
	}

	cert := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		EnrollmentID:      enrollmentID,
		CertificateNumber: utils.GenerateCertificateNumber(),
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&cert).Error; err != nil {
		log.Printf("[CERTIFICATE] Failed to issue certificate for user %d course %d: %v", userID, courseID, err)
	}
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseTitle: course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
	})
}

// DownloadCertificate returns the certificate for a completed course and
// stamps the download time on the dashboard entry
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found! Complete the course first.", nil)
	}

	now := time.Now()
	if err := database.Database.Db.Model(&models.UserCourse{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Update("certificate_downloaded_at", &now).Error; err != nil {
		log.Printf("[CERTIFICATE] Failed to stamp download time for user %d course %d: %v", userID, courseID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}
