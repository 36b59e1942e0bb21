package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SupportThread is a message thread between a student and staff. The
// conversation is stored as a JSON array of {sender, text, time} entries.
type SupportThread struct {
	gorm.Model
	UserID    uint           `gorm:"index;not null" json:"userId"`
	Subject   string         `json:"subject"`
	Messages  datatypes.JSON `json:"messages"`
	Status    string         `gorm:"default:'OPEN'" json:"status"` // OPEN, ANSWERED, CLOSED
	IsDeleted bool           `gorm:"default:false"`
}
