package course

import "gorm.io/gorm"

// LectureProgress is the per-lecture viewed flag for a user. Created lazily
// on the first progress update; one row per (user, lecture).
type LectureProgress struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_lecture"`
	LectureID uint `json:"lecture_id" gorm:"not null;uniqueIndex:idx_progress_user_lecture"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`
	Viewed    bool `json:"viewed" gorm:"default:false"`
}

// CourseCompletion is the explicit completed override for a (user, course)
// pair. Independent of the derived percentage; a course can be marked
// completed below 100% viewage and unmarked again.
type CourseCompletion struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_completion_user_course"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_completion_user_course"`
	Completed bool `json:"completed" gorm:"default:false"`
}
