package utils

import (
	"fmt"
	"log"
	"time"

	"kavyalearn/config"
	"kavyalearn/database"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeReminderScheduler sets up the daily study-reminder and
// pending-enrollment cleanup jobs
func InitializeReminderScheduler() {
	log.Println("[REMINDER-SCHEDULER] Initializing reminder scheduler...")

	c := cron.New()

	// Run daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running daily jobs...")
		SendStudyReminders()
		ExpireStalePendingEnrollments()
	})

	c.Start()
	log.Println("[REMINDER-SCHEDULER] Reminder scheduler started - runs daily at 9 AM")
}

// SendStudyReminders notifies students whose active enrollments have been idle
// for the configured number of days
func SendStudyReminders() {
	db := database.Database.Db
	idleDays := config.AppConfig.ReminderIdleDays
	cutoff := time.Now().AddDate(0, 0, -idleDays)

	var idleEnrollments []courseModels.Enrollment
	if err := db.
		Where("enrollment_status = ? AND is_deleted = ?", courseModels.EnrollmentStatusActive, false).
		Where("last_accessed IS NOT NULL AND last_accessed < ?", cutoff).
		Find(&idleEnrollments).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching idle enrollments: %v", err)
		return
	}

	log.Printf("[REMINDER-SCHEDULER] Found %d idle enrollments", len(idleEnrollments))

	for _, enrollment := range idleEnrollments {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", enrollment.UserID, false).First(&user).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error fetching user %d: %v", enrollment.UserID, err)
			continue
		}

		var course courseModels.Course
		if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error fetching course %d: %v", enrollment.CourseID, err)
			continue
		}

		SendStudyReminderEmail(user.Email, user.Name, course.Title, idleDays)

		notification := models.Notification{
			UserID:        user.ID,
			Type:          "REMINDER",
			Title:         "Continue your course",
			Body:          fmt.Sprintf("It has been a while since you opened %s.", course.Title),
			ReferenceType: "course",
			ReferenceID:   course.ID,
		}
		if err := db.Create(&notification).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error creating reminder notification: %v", err)
		}
	}
}

// ExpireStalePendingEnrollments soft deletes pending enrollments that were
// never activated so abandoned carts don't block re-creation forever
func ExpireStalePendingEnrollments() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.PendingEnrollmentTTLDays)

	result := db.
		Where("enrollment_status = ? AND is_deleted = ? AND created_at < ?", courseModels.EnrollmentStatusPending, false, cutoff).
		Delete(&courseModels.Enrollment{})

	if result.Error != nil {
		log.Printf("[REMINDER-SCHEDULER] Error expiring pending enrollments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[REMINDER-SCHEDULER] Expired %d stale pending enrollments", result.RowsAffected)
	}
}
