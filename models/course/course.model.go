package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Description  string    `json:"description" gorm:"type:text"`
	Category     string    `json:"category"`
	Level        string    `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	Price        int       `json:"price" gorm:"default:0"`          // 0 = free
	ThumbnailURL string    `json:"thumbnail_url"`
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	CreatorID    uint      `json:"creator_id" gorm:"index;not null"`
	IsDeleted    bool      `gorm:"default:false"`
	Lectures     []Lecture `json:"lectures,omitempty" gorm:"foreignKey:CourseID"`
}

// Lecture is a single video lesson within a course. OrderIndex is kept
// contiguous (0..n-1) per course; every insert, delete or reorder renumbers
// the whole list.
type Lecture struct {
	gorm.Model
	CourseID      uint           `json:"course_id" gorm:"index;not null"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	VideoURL      string         `json:"video_url"`
	VideoMeta     datatypes.JSON `json:"video_meta,omitempty"` // oEmbed payload, best effort
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsPreviewFree bool           `json:"is_preview_free" gorm:"default:false"`
	IsDeleted     bool           `gorm:"default:false"`
}
