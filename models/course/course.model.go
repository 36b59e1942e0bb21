package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	InstructorID uint    `json:"instructor_id" gorm:"index"`
	Price        float64 `json:"price" gorm:"default:0"`        // 0 means the course can only be opened via a free grant
	Duration     int64   `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`
}
