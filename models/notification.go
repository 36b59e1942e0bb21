package models

import "gorm.io/gorm"

// Notification is a persisted per-user notification produced by enrollment
// events and the reminder scheduler.
type Notification struct {
	gorm.Model
	UserID        uint   `gorm:"index;not null" json:"userId"`
	Type          string `gorm:"type:varchar(50)" json:"type"` // ENROLLMENT, REMINDER, MESSAGE
	Title         string `json:"title"`
	Body          string `gorm:"type:text" json:"body"`
	ReferenceType string `gorm:"type:varchar(50)" json:"referenceType"` // course, enrollment, thread
	ReferenceID   uint   `gorm:"default:0" json:"referenceId"`
	IsRead        bool   `gorm:"default:false" json:"isRead"`
	IsDeleted     bool   `gorm:"default:false"`
}
