package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserCourse is the denormalized per-user course entry used for dashboard reads.
// It mirrors an active enrollment and is never authoritative for access gating;
// the Enrollment record always wins when the two disagree.
type UserCourse struct {
	gorm.Model
	UserID                  uint           `gorm:"index;not null" json:"userId"`
	CourseID                uint           `gorm:"index;not null" json:"courseId"`
	CompletedLessons        datatypes.JSON `json:"completedLessons"` // array of lesson ids
	HoursSpent              float64        `gorm:"default:0" json:"hoursSpent"`
	CompletionPercentage    float64        `gorm:"default:0" json:"completionPercentage"`
	EnrollmentDate          time.Time      `json:"enrollmentDate"`
	CertificateDownloadedAt *time.Time     `json:"certificateDownloadedAt"`
	IsDeleted               bool           `gorm:"default:false"`
}
