package enrollmentController

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

// CreatePendingEnrollment creates a pending enrollment for the current user.
// A pending enrollment grants no access; the client carries its id through the
// payment flow and activates it afterwards.
func CreatePendingEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// One live enrollment per (student, course). The existing record's id and
	// status go back to the client so it can resume instead of retrying.
	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", fiber.Map{
			"enrollmentId":     existing.ID,
			"enrollmentStatus": existing.EnrollmentStatus,
		})
	}

	enrollment := courseModels.Enrollment{
		UserID:           userID,
		CourseID:         uint(courseID),
		EnrollmentStatus: courseModels.EnrollmentStatusPending,
		IsFree:           false,
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment created. Complete the payment to activate it.", fiber.Map{
		"enrollmentId": enrollment.ID,
		"enrollment":   enrollment,
	})
}

// ActivateEnrollment flips a pending enrollment to active once a completed
// payment by the same user for the same course is presented. The enrollment
// write happens first; the Course and UserCourse writes are idempotent
// contains-check appends, so a retry after a partial failure converges.
func ActivateEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	paymentID := c.Locals("paymentID").(uint)

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	var payment models.Payment
	if err := db.Where("id = ? AND is_deleted = ?", paymentID, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	if payment.Status != models.PaymentStatusCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment not completed!", nil)
	}

	if payment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Payment does not belong to current user!", nil)
	}

	if payment.CourseID != enrollment.CourseID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment course does not match enrollment course!", nil)
	}

	now := time.Now()
	enrollment.EnrollmentStatus = courseModels.EnrollmentStatusActive
	enrollment.PaymentID = &payment.ID
	enrollment.PurchaseStatus = courseModels.PurchaseStatusPaid
	enrollment.IsFree = false
	enrollment.EnrolledAt = &now

	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to activate enrollment!", nil)
	}

	// The enrollment record gates access on its own; the Course and UserCourse
	// writes below are read-optimized mirrors and safe to re-apply.
	if err := AddStudentToCourse(enrollment.CourseID, userID); err != nil {
		log.Printf("[ENROLLMENT] Failed to add user %d to course %d student set: %v", userID, enrollment.CourseID, err)
	}
	if err := AppendUserCourse(userID, enrollment.CourseID, now); err != nil {
		log.Printf("[ENROLLMENT] Failed to append course %d to user %d dashboard: %v", enrollment.CourseID, userID, err)
	}

	var course courseModels.Course
	if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err == nil {
		go utils.SendEnrollmentConfirmationEmail(user.Email, user.Name, course.Title)
		notification := models.Notification{
			UserID:        userID,
			Type:          "ENROLLMENT",
			Title:         "Enrollment activated",
			Body:          "You now have full access to " + course.Title + ".",
			ReferenceType: "course",
			ReferenceID:   course.ID,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("[ENROLLMENT] Failed to create activation notification: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment activated successfully!", enrollment)
}

// GetEnrollmentStatus reports the caller's enrollment and lock state for a
// course. No enrollment means locked.
func GetEnrollmentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status fetched!", fiber.Map{
			"enrolled": false,
			"isLocked": true,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status fetched!", fiber.Map{
		"enrolled":       enrollment.IsEnrolled(),
		"status":         enrollment.EnrollmentStatus,
		"isFree":         enrollment.HasFreeAccess(),
		"purchaseStatus": enrollment.PurchaseStatus,
		"isLocked":       enrollment.IsLocked(),
	})
}

// UpdateEnrollment applies a partial progress update to the caller's own
// enrollment. Setting completed also forces the completed status.
func UpdateEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	reqData, ok := c.Locals("validatedEnrollmentUpdate").(*struct {
		ProgressPercentage *float64 `json:"progressPercentage"`
		WatchHours         *float64 `json:"watchHours"`
		Completed          *bool    `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if reqData.ProgressPercentage != nil {
		enrollment.ProgressPercentage = *reqData.ProgressPercentage
	}
	if reqData.WatchHours != nil {
		enrollment.WatchHours = *reqData.WatchHours
	}
	if reqData.Completed != nil {
		enrollment.Completed = *reqData.Completed
		if *reqData.Completed {
			enrollment.EnrollmentStatus = courseModels.EnrollmentStatusCompleted
		}
	}

	now := time.Now()
	enrollment.LastAccessed = &now

	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// UnenrollAll removes every trace of the caller's enrollments: course student
// sets, the enrollment rows themselves and the dashboard entries. Each item is
// best effort; failures are logged and reported in the response rather than
// aborting the sweep.
func UnenrollAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	removed := 0
	failed := 0
	for _, enrollment := range enrollments {
		if err := db.Where("course_id = ? AND user_id = ?", enrollment.CourseID, userID).Delete(&courseModels.CourseStudent{}).Error; err != nil {
			log.Printf("[ENROLLMENT] Failed to remove user %d from course %d student set: %v", userID, enrollment.CourseID, err)
			failed++
			continue
		}
		if err := db.Delete(&enrollment).Error; err != nil {
			log.Printf("[ENROLLMENT] Failed to delete enrollment %d: %v", enrollment.ID, err)
			failed++
			continue
		}
		removed++
	}

	if err := db.Where("user_id = ?", userID).Delete(&models.UserCourse{}).Error; err != nil {
		log.Printf("[ENROLLMENT] Failed to clear dashboard entries for user %d: %v", userID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from all courses!", fiber.Map{
		"removed": removed,
		"failed":  failed,
	})
}

// CreateFreeEnrollment lets an admin grant a student access without a payment.
// Creation and activation happen in one step. The dashboard append is best
// effort: a hiccup updating the cache must not fail the grant.
func CreateFreeEnrollment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedFreeEnrollment").(*struct {
		StudentID uint `json:"studentId"`
		CourseID  uint `json:"courseId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.StudentID, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var existing courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", reqData.StudentID, reqData.CourseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student already enrolled in this course!", fiber.Map{
			"enrollmentId":     existing.ID,
			"enrollmentStatus": existing.EnrollmentStatus,
		})
	}

	now := time.Now()
	enrollment := courseModels.Enrollment{
		UserID:           reqData.StudentID,
		CourseID:         reqData.CourseID,
		EnrollmentStatus: courseModels.EnrollmentStatusActive,
		IsFree:           true,
		PurchaseStatus:   courseModels.PurchaseStatusFree,
		EnrolledAt:       &now,
	}

	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	if err := AddStudentToCourse(reqData.CourseID, reqData.StudentID); err != nil {
		log.Printf("[ENROLLMENT] Failed to add user %d to course %d student set: %v", reqData.StudentID, reqData.CourseID, err)
	}

	var warnings []string
	if err := AppendUserCourse(reqData.StudentID, reqData.CourseID, now); err != nil {
		log.Printf("[ENROLLMENT] Failed to append course %d to user %d dashboard: %v", reqData.CourseID, reqData.StudentID, err)
		warnings = append(warnings, "dashboard entry could not be updated")
	}

	go utils.SendFreeGrantEmail(student.Email, student.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Free enrollment created successfully!", fiber.Map{
		"enrollment": enrollment,
		"warnings":   warnings,
	})
}

// GetUserEnrollmentsList gets all enrollments for the current user
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseTitle    string  `json:"course_title"`
		CourseCategory string  `json:"course_category"`
		CoursePrice    float64 `json:"course_price"`
		CourseDuration int64   `json:"course_duration"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	courseIDs := make([]uint, len(enrollments))
	for i, e := range enrollments {
		courseIDs[i] = e.CourseID
	}

	coursesByID := make(map[uint]courseModels.Course, len(courseIDs))
	if len(courseIDs) > 0 {
		var courses []courseModels.Course
		if err := database.Database.Db.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
		for _, course := range courses {
			coursesByID[course.ID] = course
		}
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		course := coursesByID[e.CourseID]
		result[i] = EnrollmentWithCourse{
			Enrollment:     e,
			CourseTitle:    course.Title,
			CourseCategory: course.Category,
			CoursePrice:    course.Price,
			CourseDuration: course.Duration,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// AddStudentToCourse adds the student to the course's enrolled-student set if
// not already present.
func AddStudentToCourse(courseID, userID uint) error {
	db := database.Database.Db

	var existing courseModels.CourseStudent
	if err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&existing).Error; err == nil {
		return nil
	}

	return db.Create(&courseModels.CourseStudent{CourseID: courseID, UserID: userID}).Error
}

// AppendUserCourse appends a dashboard entry with zeroed progress for the
// course if the user does not already have one.
func AppendUserCourse(userID, courseID uint, enrolledAt time.Time) error {
	db := database.Database.Db

	var existing models.UserCourse
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existing).Error; err == nil {
		return nil
	}

	entry := models.UserCourse{
		UserID:           userID,
		CourseID:         courseID,
		CompletedLessons: []byte("[]"),
		EnrollmentDate:   enrolledAt,
	}
	return db.Create(&entry).Error
}
