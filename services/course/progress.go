package courseService

import (
	"errors"
	"math"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ViewedThreshold is the played fraction at which a lecture counts as
// viewed.
const ViewedThreshold = 0.95

// ProgressSummary is derived, never stored: Percent is always recomputed
// from the per-lecture rows. Completed is the explicit override and may
// disagree with Percent.
type ProgressSummary struct {
	CourseID      uint          `json:"course_id"`
	LectureViewed map[uint]bool `json:"lecture_viewed"`
	TotalLectures int           `json:"total_lectures"`
	ViewedCount   int           `json:"viewed_count"`
	Percent       int           `json:"percent"`
	Completed     bool          `json:"completed"`
}

// UpdateLectureProgress upserts the viewed flag for (userID, lectureID).
// Requires approved access to the course; the lecture must belong to it.
// A nil viewed is a validated no-op: the player heartbeats a played fraction
// continuously and a sub-threshold event must never clear a flag that an
// earlier crossing set. Writing the same flag twice is skipped, so repeated
// player events above the viewed threshold do not produce redundant writes.
func UpdateLectureProgress(db *gorm.DB, userID, courseID, lectureID uint, viewed *bool) (*ProgressSummary, error) {
	state, _, err := ResolveAccess(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if state != AccessApproved {
		return nil, ErrNotApproved
	}

	var lecture courseModels.Lecture
	err = db.Where("id = ? AND course_id = ? AND is_deleted = ?", lectureID, courseID, false).First(&lecture).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidLecture
		}
		return nil, err
	}

	if viewed == nil {
		return GetCourseProgress(db, userID, courseID)
	}

	var progress courseModels.LectureProgress
	err = db.Where("user_id = ? AND lecture_id = ?", userID, lectureID).First(&progress).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = courseModels.LectureProgress{
			UserID:    userID,
			LectureID: lectureID,
			CourseID:  courseID,
			Viewed:    *viewed,
		}
		if err := db.Create(&progress).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case progress.Viewed != *viewed:
		progress.Viewed = *viewed
		if err := db.Save(&progress).Error; err != nil {
			return nil, err
		}
	}
	// Unchanged flag: nothing to write.

	return GetCourseProgress(db, userID, courseID)
}

// GetCourseProgress returns the per-lecture viewed map, the derived
// completion percentage and the explicit completed flag. A course with zero
// lectures has percent 0.
func GetCourseProgress(db *gorm.DB, userID, courseID uint) (*ProgressSummary, error) {
	state, _, err := ResolveAccess(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if state != AccessApproved {
		return nil, ErrNotApproved
	}

	var lectures []courseModels.Lecture
	err = db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lectures).Error
	if err != nil {
		return nil, err
	}

	var rows []courseModels.LectureProgress
	err = db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	viewedByLecture := make(map[uint]bool, len(rows))
	for _, row := range rows {
		viewedByLecture[row.LectureID] = row.Viewed
	}

	summary := ProgressSummary{
		CourseID:      courseID,
		LectureViewed: make(map[uint]bool, len(lectures)),
		TotalLectures: len(lectures),
	}
	for _, lecture := range lectures {
		viewed := viewedByLecture[lecture.ID]
		summary.LectureViewed[lecture.ID] = viewed
		if viewed {
			summary.ViewedCount++
		}
	}
	if summary.TotalLectures > 0 {
		summary.Percent = int(math.Round(float64(summary.ViewedCount) / float64(summary.TotalLectures) * 100))
	}

	var completion courseModels.CourseCompletion
	err = db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&completion).Error
	if err == nil {
		summary.Completed = completion.Completed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &summary, nil
}

// SetCourseCompleted sets or clears the explicit completed flag for
// (userID, courseID). This is a user action, not derived from lecture
// progress, and is valid at any percentage.
func SetCourseCompleted(db *gorm.DB, userID, courseID uint, completed bool) (*ProgressSummary, error) {
	state, _, err := ResolveAccess(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if state != AccessApproved {
		return nil, ErrNotApproved
	}

	var completion courseModels.CourseCompletion
	err = db.Where(courseModels.CourseCompletion{UserID: userID, CourseID: courseID}).
		FirstOrCreate(&completion).Error
	if err != nil {
		return nil, err
	}
	if completion.Completed != completed {
		completion.Completed = completed
		if err := db.Save(&completion).Error; err != nil {
			return nil, err
		}
	}

	return GetCourseProgress(db, userID, courseID)
}
