package courseService

import (
	"fmt"
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh connection would get a fresh in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Mobile:   "00000000" + name,
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCourse(t *testing.T, db *gorm.DB, creatorID uint, price int, published bool) *courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:       "Go from Scratch",
		Category:    "Programming",
		Price:       price,
		CreatorID:   creatorID,
		IsPublished: published,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func createLecture(t *testing.T, db *gorm.DB, courseID uint, order int) *courseModels.Lecture {
	t.Helper()
	lecture := courseModels.Lecture{
		CourseID:   courseID,
		Title:      "Lecture",
		VideoURL:   "https://youtu.be/abc",
		OrderIndex: order,
	}
	require.NoError(t, db.Create(&lecture).Error)
	return &lecture
}

func TestResolveAccessStates(t *testing.T) {
	db := setupTestDB(t)
	instructor := createUser(t, db, "instructor", models.RoleInstructor)
	student := createUser(t, db, "student", models.RoleUser)
	course := createCourse(t, db, instructor.ID, 4900, true)

	t.Run("UnknownCourse", func(t *testing.T) {
		_, _, err := ResolveAccess(db, student.ID, 9999)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})

	t.Run("NoHistoryIsNone", func(t *testing.T) {
		state, resolved, err := ResolveAccess(db, student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, AccessNone, state)
		assert.Equal(t, course.ID, resolved.ID)
	})

	t.Run("CreatorIsApproved", func(t *testing.T) {
		state, _, err := ResolveAccess(db, instructor.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, AccessApproved, state)
	})

	t.Run("PendingAfterRequest", func(t *testing.T) {
		_, err := RequestAccess(db, student.ID, course.ID)
		require.NoError(t, err)

		state, _, err := ResolveAccess(db, student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, AccessPending, state)
	})

	t.Run("DeclinedAfterDecision", func(t *testing.T) {
		var request courseModels.AccessRequest
		require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&request).Error)

		_, err := DecideRequest(db, request.ID, instructor.ID, false)
		require.NoError(t, err)

		state, _, err := ResolveAccess(db, student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, AccessDeclined, state)
	})

	t.Run("EnrollmentWinsOverDecline", func(t *testing.T) {
		// An out-of-band grant after a decline must not leave the student
		// locked out.
		require.NoError(t, db.Create(&courseModels.Enrollment{UserID: student.ID, CourseID: course.ID}).Error)

		state, _, err := ResolveAccess(db, student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, AccessApproved, state)
	})
}

func TestRequestAccess(t *testing.T) {
	db := setupTestDB(t)
	instructor := createUser(t, db, "instructor", models.RoleInstructor)
	student := createUser(t, db, "student", models.RoleUser)
	course := createCourse(t, db, instructor.ID, 4900, true)

	request, err := RequestAccess(db, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.RequestPending, request.Status)
	assert.NotEmpty(t, request.RequestRef)

	t.Run("SecondPendingConflicts", func(t *testing.T) {
		_, err := RequestAccess(db, student.ID, course.ID)
		assert.ErrorIs(t, err, ErrPendingExists)
	})

	t.Run("DuplicatePendingBlockedByIndex", func(t *testing.T) {
		// A writer that slips past the pre-check still hits the unique
		// ActiveKey, so the invariant holds under concurrent requests.
		activeKey := fmt.Sprintf("%d-%d", student.ID, course.ID)
		dup := courseModels.AccessRequest{
			UserID:     student.ID,
			CourseID:   course.ID,
			Status:     courseModels.RequestPending,
			RequestRef: "dup-ref",
			ActiveKey:  &activeKey,
		}
		assert.Error(t, db.Create(&dup).Error)

		var count int64
		db.Model(&courseModels.AccessRequest{}).
			Where("user_id = ? AND course_id = ? AND status = ?",
				student.ID, course.ID, courseModels.RequestPending).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("ResubmitAfterDecline", func(t *testing.T) {
		_, err := DecideRequest(db, request.ID, instructor.ID, false)
		require.NoError(t, err)

		var declined courseModels.AccessRequest
		require.NoError(t, db.First(&declined, request.ID).Error)
		assert.Nil(t, declined.ActiveKey, "decision must free the pending slot")

		again, err := RequestAccess(db, student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, courseModels.RequestPending, again.Status)
		assert.NotEqual(t, request.RequestRef, again.RequestRef)
	})

	t.Run("EnrolledConflicts", func(t *testing.T) {
		other := createCourse(t, db, instructor.ID, 0, true)
		_, err := EnrollFree(db, student.ID, other.ID)
		require.NoError(t, err)

		_, err = RequestAccess(db, student.ID, other.ID)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	t.Run("DraftCourseNotFound", func(t *testing.T) {
		draft := createCourse(t, db, instructor.ID, 4900, false)
		_, err := RequestAccess(db, student.ID, draft.ID)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestDecideRequest(t *testing.T) {
	db := setupTestDB(t)
	instructor := createUser(t, db, "instructor", models.RoleInstructor)
	intruder := createUser(t, db, "intruder", models.RoleInstructor)
	student := createUser(t, db, "student", models.RoleUser)
	course := createCourse(t, db, instructor.ID, 4900, true)

	request, err := RequestAccess(db, student.ID, course.ID)
	require.NoError(t, err)

	t.Run("OnlyOwnerDecides", func(t *testing.T) {
		_, err := DecideRequest(db, request.ID, intruder.ID, true)
		assert.ErrorIs(t, err, ErrNotCourseOwner)
	})

	t.Run("UnknownRequest", func(t *testing.T) {
		_, err := DecideRequest(db, 9999, instructor.ID, true)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("ApproveEnrolls", func(t *testing.T) {
		decided, err := DecideRequest(db, request.ID, instructor.ID, true)
		require.NoError(t, err)
		assert.Equal(t, courseModels.RequestApproved, decided.Status)
		require.NotNil(t, decided.DecidedAt)
		require.NotNil(t, decided.DecidedBy)
		assert.Equal(t, instructor.ID, *decided.DecidedBy)

		var count int64
		db.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
		assert.EqualValues(t, 1, count)

		state, _, err := ResolveAccess(db, student.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, AccessApproved, state)
	})

	t.Run("ReApproveIsIdempotent", func(t *testing.T) {
		decided, err := DecideRequest(db, request.ID, instructor.ID, true)
		require.NoError(t, err)
		assert.Equal(t, courseModels.RequestApproved, decided.Status)

		var count int64
		db.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("DeclineAfterApproveConflicts", func(t *testing.T) {
		_, err := DecideRequest(db, request.ID, instructor.ID, false)
		assert.ErrorIs(t, err, ErrRequestDecided)
	})
}

func TestEnrollFree(t *testing.T) {
	db := setupTestDB(t)
	instructor := createUser(t, db, "instructor", models.RoleInstructor)
	student := createUser(t, db, "student", models.RoleUser)

	t.Run("PaidCourseRejected", func(t *testing.T) {
		paid := createCourse(t, db, instructor.ID, 100, true)
		_, err := EnrollFree(db, student.ID, paid.ID)
		assert.ErrorIs(t, err, ErrPriceNotZero)
	})

	t.Run("FreeCourseIdempotent", func(t *testing.T) {
		free := createCourse(t, db, instructor.ID, 0, true)

		first, err := EnrollFree(db, student.ID, free.ID)
		require.NoError(t, err)
		second, err := EnrollFree(db, student.ID, free.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", student.ID, free.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("DraftCourseNotFound", func(t *testing.T) {
		draft := createCourse(t, db, instructor.ID, 0, false)
		_, err := EnrollFree(db, student.ID, draft.ID)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestRequestsForInstructor(t *testing.T) {
	db := setupTestDB(t)
	instructor := createUser(t, db, "instructor", models.RoleInstructor)
	other := createUser(t, db, "other", models.RoleInstructor)
	studentA := createUser(t, db, "studentA", models.RoleUser)
	studentB := createUser(t, db, "studentB", models.RoleUser)

	mine := createCourse(t, db, instructor.ID, 4900, true)
	theirs := createCourse(t, db, other.ID, 4900, true)

	reqA, err := RequestAccess(db, studentA.ID, mine.ID)
	require.NoError(t, err)
	_, err = RequestAccess(db, studentB.ID, mine.ID)
	require.NoError(t, err)
	_, err = RequestAccess(db, studentA.ID, theirs.ID)
	require.NoError(t, err)

	pending, err := RequestsForInstructor(db, instructor.ID, courseModels.RequestPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
	for _, request := range pending {
		assert.Equal(t, mine.ID, request.CourseID)
	}

	_, err = DecideRequest(db, reqA.ID, instructor.ID, true)
	require.NoError(t, err)

	pending, err = RequestsForInstructor(db, instructor.ID, courseModels.RequestPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	approved, err := RequestsForInstructor(db, instructor.ID, courseModels.RequestApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
	assert.Equal(t, studentA.ID, approved[0].UserID)

	t.Run("InvalidStatusFilter", func(t *testing.T) {
		_, err := RequestsForInstructor(db, instructor.ID, "bogus")
		var domainErr *DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, KindValidation, domainErr.Kind)
	})
}
