package courseService

import (
	"errors"
	"fmt"
	"time"

	courseModels "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessState is the resolved relationship between a user and a course's
// paid content.
type AccessState string

const (
	AccessNone     AccessState = "none"
	AccessPending  AccessState = "pending"
	AccessDeclined AccessState = "declined"
	AccessApproved AccessState = "approved"
)

// ResolveAccess computes the access state for (userID, courseID).
//
// Enrollment membership is authoritative: once a user is in the enrolled set
// they resolve approved regardless of any request history, so an out-of-band
// grant after a decline can never lock the student out. Without membership,
// the most recent access request decides between pending and declined.
func ResolveAccess(db *gorm.DB, userID, courseID uint) (AccessState, *courseModels.Course, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessNone, nil, ErrCourseNotFound
		}
		return AccessNone, nil, err
	}

	// The creator always has access to their own course, published or not.
	if course.CreatorID == userID {
		return AccessApproved, &course, nil
	}

	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err == nil {
		return AccessApproved, &course, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AccessNone, nil, err
	}

	var request courseModels.AccessRequest
	err = db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Order("created_at desc").First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessNone, &course, nil
		}
		return AccessNone, nil, err
	}

	switch request.Status {
	case courseModels.RequestPending:
		return AccessPending, &course, nil
	case courseModels.RequestDeclined:
		return AccessDeclined, &course, nil
	default:
		// An APPROVED request without a matching enrollment row should not
		// happen (approval writes both in one transaction); treat the
		// membership set as the ground truth and report none so the client
		// re-requests rather than hitting a locked course.
		return AccessNone, &course, nil
	}
}

// RequestAccess creates a new PENDING access request for a paid course.
// Fails with a conflict when a pending request already exists; a new request
// after a decline is allowed.
func RequestAccess(db *gorm.DB, userID, courseID uint) (*courseModels.AccessRequest, error) {
	state, course, err := ResolveAccess(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	switch state {
	case AccessApproved:
		return nil, ErrAlreadyEnrolled
	case AccessPending:
		return nil, ErrPendingExists
	}

	if !course.IsPublished {
		return nil, ErrCourseNotFound
	}

	activeKey := fmt.Sprintf("%d-%d", userID, courseID)
	request := courseModels.AccessRequest{
		UserID:     userID,
		CourseID:   courseID,
		Status:     courseModels.RequestPending,
		RequestRef: uuid.New().String(),
		ActiveKey:  &activeKey,
	}
	if err := db.Create(&request).Error; err != nil {
		// A concurrent request that won the race hits the ActiveKey unique
		// index; surface it the same as the pre-check.
		var existing courseModels.AccessRequest
		if db.Where("user_id = ? AND course_id = ? AND status = ?",
			userID, courseID, courseModels.RequestPending).First(&existing).Error == nil {
			return nil, ErrPendingExists
		}
		return nil, err
	}
	return &request, nil
}

// DecideRequest approves or declines a pending access request on behalf of
// deciderID, who must be the course creator.
//
// Approval atomically flips the request status and inserts the enrollment
// row; no read may observe one without the other. Re-driving an approval of
// an already-approved request is a no-op so a partially failed decision can
// be retried safely. A declined request stays re-creatable by the student;
// an approved one is terminal.
func DecideRequest(db *gorm.DB, requestID, deciderID uint, approve bool) (*courseModels.AccessRequest, error) {
	var request courseModels.AccessRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", request.CourseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.CreatorID != deciderID {
		return nil, ErrNotCourseOwner
	}

	if request.Status == courseModels.RequestApproved {
		if approve {
			// Idempotent re-drive: make sure the enrollment exists, then
			// report success.
			err := db.Where(courseModels.Enrollment{UserID: request.UserID, CourseID: request.CourseID}).
				FirstOrCreate(&courseModels.Enrollment{UserID: request.UserID, CourseID: request.CourseID}).Error
			if err != nil {
				return nil, err
			}
			return &request, nil
		}
		return nil, ErrRequestDecided
	}

	now := time.Now()
	request.DecidedAt = &now
	request.DecidedBy = &deciderID
	request.ActiveKey = nil // frees the pending slot for a resubmission

	if !approve {
		request.Status = courseModels.RequestDeclined
		if err := db.Save(&request).Error; err != nil {
			return nil, err
		}
		return &request, nil
	}

	request.Status = courseModels.RequestApproved
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		return tx.Where(courseModels.Enrollment{UserID: request.UserID, CourseID: request.CourseID}).
			FirstOrCreate(&courseModels.Enrollment{UserID: request.UserID, CourseID: request.CourseID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// EnrollFree adds the user to a zero-price course's enrolled set, bypassing
// the request workflow. Idempotent: enrolling twice leaves a single row and
// both calls succeed.
//
// Free-ness is price == 0, nothing else. Courses with null/empty/"free"
// prices are upstream data bugs and are rejected by the course validators,
// not special-cased here.
func EnrollFree(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if course.Price != 0 {
		return nil, ErrPriceNotZero
	}

	enrollment := courseModels.Enrollment{UserID: userID, CourseID: courseID}
	err = db.Where(courseModels.Enrollment{UserID: userID, CourseID: courseID}).FirstOrCreate(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// RequestsForInstructor lists access requests with the given status across
// all courses created by instructorID, oldest first.
func RequestsForInstructor(db *gorm.DB, instructorID uint, status string) ([]courseModels.AccessRequest, error) {
	switch status {
	case courseModels.RequestPending, courseModels.RequestApproved, courseModels.RequestDeclined:
	default:
		return nil, &DomainError{Kind: KindValidation, Message: "Invalid request status filter!"}
	}

	var requests []courseModels.AccessRequest
	err := db.Joins("JOIN courses ON courses.id = access_requests.course_id").
		Where("courses.creator_id = ? AND access_requests.status = ? AND access_requests.is_deleted = ?",
			instructorID, status, false).
		Order("access_requests.created_at asc").
		Find(&requests).Error
	return requests, err
}
