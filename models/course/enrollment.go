package course

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus is the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
)

// PurchaseStatus values an enrollment can carry
const (
	PurchaseStatusFree = "free"
	PurchaseStatusPaid = "paid"
)

// Enrollment is the authoritative record that a student has (or is attempting)
// access to a course. At most one live enrollment may exist per (user, course)
// pair. Access gating always keys off this record, never off the denormalized
// UserCourse cache or the CourseStudent set.
type Enrollment struct {
	gorm.Model
	UserID           uint             `json:"user_id" gorm:"index;not null"`
	CourseID         uint             `json:"course_id" gorm:"index;not null"`
	EnrollmentStatus EnrollmentStatus `json:"enrollment_status" gorm:"type:varchar(20);default:'pending'"`
	IsFree           bool             `json:"is_free" gorm:"default:false"`
	PurchaseStatus   string           `json:"purchase_status" gorm:"type:varchar(20);default:''"` // free, paid or empty
	PaymentID        *uint            `json:"payment_id" gorm:"index"`

	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"` // 0-100
	Completed          bool       `json:"completed" gorm:"default:false"`
	WatchHours         float64    `json:"watch_hours" gorm:"default:0"`
	EnrolledAt         *time.Time `json:"enrolled_at"`
	LastAccessed       *time.Time `json:"last_accessed"`
	IsDeleted          bool       `gorm:"default:false"`
}

// HasFreeAccess reports whether the enrollment grants access without payment.
// Older records marked only via the purchase status string, so both signals
// are honored.
func (e *Enrollment) HasFreeAccess() bool {
	return e.IsFree || strings.EqualFold(e.PurchaseStatus, PurchaseStatusFree)
}

// IsEnrolled reports whether the enrollment should count as granting access.
// "Paid" has been represented several ways over time (active status, linked
// payment id, purchase status string), so the derivation ORs every signal
// rather than risking locking out a paying student.
func (e *Enrollment) IsEnrolled() bool {
	return e.EnrollmentStatus == EnrollmentStatusActive ||
		e.EnrollmentStatus == EnrollmentStatusCompleted ||
		e.HasFreeAccess() ||
		e.PaymentID != nil ||
		strings.EqualFold(e.PurchaseStatus, PurchaseStatusPaid)
}

// IsLocked reports whether course content must be withheld from the student.
func (e *Enrollment) IsLocked() bool {
	return !(e.IsEnrolled() || strings.EqualFold(e.PurchaseStatus, PurchaseStatusPaid))
}
