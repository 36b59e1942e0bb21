package courseController

import (
	"encoding/json"
	"log"
	"time"

	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// courseAccess looks up the caller's enrollment for a course and reports
// whether protected content must stay locked. Gating keys off the Enrollment
// record alone; the CourseStudent set and UserCourse cache are never consulted.
func courseAccess(userID uint, courseID int) (courseModels.Enrollment, bool) {
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return enrollment, true
	}
	return enrollment, enrollment.IsLocked()
}

// GetLessonContent serves the full lesson body to an unlocked student
func GetLessonContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	enrollment, locked := courseAccess(userID, courseID)
	if locked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please purchase or enroll in this course to access its content!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	now := time.Now()
	enrollment.LastAccessed = &now
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		log.Printf("[LESSON] Failed to stamp last access for enrollment %d: %v", enrollment.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"lesson":     lesson,
		"enrollment": enrollment,
	})
}

// MarkLessonComplete records a finished lesson, updates the dashboard entry
// and recomputes enrollment progress. Completing the same lesson twice is a
// no-op.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	_, locked := courseAccess(userID, courseID)
	if locked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please purchase or enroll in this course to access its content!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	completed, progress, err := recordLessonCompletion(userID, uint(courseID), lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", fiber.Map{
		"newly_completed": completed,
		"progress":        progress,
	})
}

// SubmitQuizAnswer evaluates a lesson quiz submission; a fully correct answer
// also completes the lesson
func SubmitQuizAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	_, locked := courseAccess(userID, courseID)
	if locked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please purchase or enroll in this course to access its content!", nil)
	}

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData := new(struct {
		SelectedOptionIDs []uint `json:"selected_option_ids"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if len(reqData.SelectedOptionIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please select at least one option!", nil)
	}

	// Get correct options across the lesson's questions
	var correctOptions []courseModels.QuizOption
	database.Database.Db.
		Joins("JOIN quiz_questions ON quiz_questions.id = quiz_options.question_id").
		Where("quiz_questions.lesson_id = ? AND quiz_options.is_correct = ? AND quiz_options.is_deleted = ?", lessonID, true, false).
		Find(&correctOptions)

	correctOptionIDs := make(map[uint]bool)
	for _, opt := range correctOptions {
		correctOptionIDs[opt.ID] = true
	}

	// Score distinct selections only; repeating an option must not inflate it
	selectedIDs := make(map[uint]bool)
	for _, selectedID := range reqData.SelectedOptionIDs {
		selectedIDs[selectedID] = true
	}

	correctCount := 0
	for selectedID := range selectedIDs {
		if correctOptionIDs[selectedID] {
			correctCount++
		}
	}

	isCorrect := correctCount == len(correctOptions) && len(selectedIDs) == len(correctOptions)

	var attemptCount int64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).Count(&attemptCount)

	selectedJSON, _ := json.Marshal(reqData.SelectedOptionIDs)

	attempt := courseModels.QuizAttempt{
		UserID:          userID,
		LessonID:        uint(lessonID),
		SelectedOptions: string(selectedJSON),
		Score:           correctCount,
		MaxScore:        len(correctOptions),
		IsCorrect:       isCorrect,
		AttemptNumber:   int(attemptCount) + 1,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
	}

	if isCorrect {
		if _, _, err := recordLessonCompletion(userID, uint(courseID), lesson); err != nil {
			log.Printf("[QUIZ] Failed to record lesson completion for user %d lesson %d: %v", userID, lessonID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", fiber.Map{
		"attempt":    attempt,
		"is_correct": isCorrect,
		"score":      correctCount,
		"max_score":  len(correctOptions),
	})
}

// recordLessonCompletion appends the lesson to the user's dashboard entry
// (contains check first), accumulates hours and recomputes the enrollment
// progress. At 100% the enrollment flips to completed and a certificate is
// issued. Returns whether the lesson was newly completed and the new progress.
func recordLessonCompletion(userID, courseID uint, lesson courseModels.Lesson) (bool, float64, error) {
	db := database.Database.Db

	var entry models.UserCourse
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&entry).Error; err != nil {
		entry = models.UserCourse{
			UserID:           userID,
			CourseID:         courseID,
			CompletedLessons: []byte("[]"),
			EnrollmentDate:   time.Now(),
		}
		if err := db.Create(&entry).Error; err != nil {
			return false, 0, err
		}
	}

	var completedIDs []uint
	if len(entry.CompletedLessons) > 0 {
		if err := json.Unmarshal(entry.CompletedLessons, &completedIDs); err != nil {
			completedIDs = nil
		}
	}

	for _, id := range completedIDs {
		if id == lesson.ID {
			return false, entry.CompletionPercentage, nil
		}
	}

	completedIDs = append(completedIDs, lesson.ID)
	completedJSON, err := json.Marshal(completedIDs)
	if err != nil {
		return false, 0, err
	}

	var totalLessons int64
	db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalLessons)

	progress := float64(100)
	if totalLessons > 0 {
		progress = float64(len(completedIDs)) / float64(totalLessons) * 100
	}

	entry.CompletedLessons = completedJSON
	entry.HoursSpent += float64(lesson.DurationMinutes) / 60
	entry.CompletionPercentage = progress
	if err := db.Save(&entry).Error; err != nil {
		return false, 0, err
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return true, progress, nil
	}

	now := time.Now()
	enrollment.ProgressPercentage = progress
	enrollment.WatchHours += float64(lesson.DurationMinutes) / 60
	enrollment.LastAccessed = &now

	if progress >= 100 {
		enrollment.Completed = true
		enrollment.EnrollmentStatus = courseModels.EnrollmentStatusCompleted
		issueCertificate(userID, courseID, enrollment.ID)
	}

	if err := db.Save(&enrollment).Error; err != nil {
		log.Printf("[LESSON] Failed to update enrollment %d progress: %v", enrollment.ID, err)
	}

	return true, progress, nil
}
