package course

import "gorm.io/gorm"

// CourseStudent is one row per student in a course's enrolled-student set.
// Every writer must do a contains check before inserting so a student never
// appears twice. Only enrollment activation, admin free grants and the
// unenroll/cascade paths touch this table.
type CourseStudent struct {
	gorm.Model
	CourseID uint `json:"course_id" gorm:"index:idx_course_student;not null"`
	UserID   uint `json:"user_id" gorm:"index:idx_course_student;not null"`
}
