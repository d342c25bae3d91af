package controllers

import (
	"log"

	"lms/config"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LectureInput is a single lecture in a bulk upsert. ID is nil for new
// lectures; order is taken from the position in the list, not from the
// client.
type LectureInput struct {
	ID            *uint  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	VideoURL      string `json:"video_url"`
	IsPreviewFree bool   `json:"is_preview_free"`
}

// CreateCourseInput is produced by the create-course validator
type CreateCourseInput struct {
	Title       string
	Subtitle    string
	Description string
	Category    string
	Level       string
	Price       int
	Lectures    []LectureInput
}

// UpdateCourseInput is produced by the update-course validator. Nil fields
// are left untouched; a non-nil Lectures slice replaces the lecture list.
type UpdateCourseInput struct {
	Title       *string         `json:"title"`
	Subtitle    *string         `json:"subtitle"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Level       *string         `json:"level"`
	Price       *int            `json:"price"`
	Lectures    *[]LectureInput `json:"lectures"`
}

// CreateCourse creates a draft course for the calling instructor, with an
// optional thumbnail and initial lecture list.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	input := c.Locals("validatedCourse").(*CreateCourseInput)

	course := courseModels.Course{
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Category:    input.Category,
		Level:       input.Level,
		Price:       input.Price,
		CreatorID:   userID,
	}

	if file, err := c.FormFile("thumbnail"); err == nil {
		path, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			log.Printf("Error saving thumbnail: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save thumbnail!", nil)
		}
		course.ThumbnailURL = utils.GetFileURL(path)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		return replaceLectures(tx, &course, input.Lectures)
	})
	if err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	fetchMissingVideoMeta(course.Lectures)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", fiber.Map{
		"course": course,
	})
}

// UpdateCourse updates course fields and, when a lecture list is supplied,
// replaces the lectures wholesale with renumbered contiguous orders.
func UpdateCourse(c *fiber.Ctx) error {
	course, errResp := ownCourse(c)
	if course == nil {
		return errResp
	}

	input := c.Locals("validatedCourseUpdate").(*UpdateCourseInput)

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Subtitle != nil {
		course.Subtitle = *input.Subtitle
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Category != nil {
		course.Category = *input.Category
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Price != nil {
		course.Price = *input.Price
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(course).Error; err != nil {
			return err
		}
		if input.Lectures != nil {
			return replaceLectures(tx, course, *input.Lectures)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	if input.Lectures != nil {
		fetchMissingVideoMeta(course.Lectures)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", fiber.Map{
		"course": course,
	})
}

// PublishCourse flips the publication flag. Unpublishing never revokes
// existing enrollments; access once granted persists.
func PublishCourse(c *fiber.Ctx) error {
	course, errResp := ownCourse(c)
	if course == nil {
		return errResp
	}

	publish := c.Locals("publishStatus").(bool)

	if publish {
		var lectureCount int64
		database.Database.Db.Model(&courseModels.Lecture{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&lectureCount)
		if lectureCount == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Add at least one lecture before publishing!", nil)
		}
	}

	course.IsPublished = publish
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	message := "Course unpublished successfully!"
	if publish {
		message = "Course published successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"course": course,
	})
}

// DeleteCourse soft deletes a course. Enrollment and progress rows are kept.
func DeleteCourse(c *fiber.Ctx) error {
	course, errResp := ownCourse(c)
	if course == nil {
		return errResp
	}

	course.IsDeleted = true
	course.IsPublished = false
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetInstructorCourses lists all courses created by the caller, drafts
// included.
func GetInstructorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	err := database.Database.Db.Where("creator_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetInstructorCourseDetails returns one of the caller's courses with its
// lectures, drafts included.
func GetInstructorCourseDetails(c *fiber.Ctx) error {
	course, errResp := ownCourse(c)
	if course == nil {
		return errResp
	}

	var lectures []courseModels.Lecture
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc").Find(&lectures)
	course.Lectures = lectures

	var enrolledCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ?", course.ID).Count(&enrolledCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":         course,
		"enrolled_count": enrolledCount,
	})
}

// ownCourse loads the course from the :id param and checks the caller
// created it. On failure the response has already been written and the
// returned course is nil.
func ownCourse(c *fiber.Ctx) (*courseModels.Course, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, middleware.ErrorResponse(c, fiber.StatusNotFound, "not_found", "Course not found!")
	}
	if course.CreatorID != userID {
		return nil, middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden", "You do not manage this course!")
	}
	return &course, nil
}

// replaceLectures makes the course's lecture list match the input: existing
// lectures are updated in place, new ones created, missing ones removed.
// OrderIndex is renumbered from the list position so orders stay contiguous
// after every insert, delete or reorder.
func replaceLectures(tx *gorm.DB, course *courseModels.Course, inputs []LectureInput) error {
	var existing []courseModels.Lecture
	if err := tx.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&existing).Error; err != nil {
		return err
	}
	existingByID := make(map[uint]*courseModels.Lecture, len(existing))
	for i := range existing {
		existingByID[existing[i].ID] = &existing[i]
	}

	kept := make(map[uint]bool, len(inputs))
	result := make([]courseModels.Lecture, 0, len(inputs))

	for position, input := range inputs {
		if input.ID != nil {
			lecture, ok := existingByID[*input.ID]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			urlChanged := lecture.VideoURL != input.VideoURL
			lecture.Title = input.Title
			lecture.Description = input.Description
			lecture.VideoURL = input.VideoURL
			lecture.IsPreviewFree = input.IsPreviewFree
			lecture.OrderIndex = position
			if urlChanged {
				lecture.VideoMeta = nil
			}
			if err := tx.Save(lecture).Error; err != nil {
				return err
			}
			kept[lecture.ID] = true
			result = append(result, *lecture)
			continue
		}

		lecture := courseModels.Lecture{
			CourseID:      course.ID,
			Title:         input.Title,
			Description:   input.Description,
			VideoURL:      input.VideoURL,
			IsPreviewFree: input.IsPreviewFree,
			OrderIndex:    position,
		}
		if err := tx.Create(&lecture).Error; err != nil {
			return err
		}
		kept[lecture.ID] = true
		result = append(result, lecture)
	}

	for _, lecture := range existing {
		if !kept[lecture.ID] {
			if err := tx.Model(&courseModels.Lecture{}).Where("id = ?", lecture.ID).
				Update("is_deleted", true).Error; err != nil {
				return err
			}
		}
	}

	course.Lectures = result
	return nil
}

// fetchMissingVideoMeta resolves oEmbed metadata for lectures that lack it.
// Must only be called after the transaction that wrote the lectures has
// committed; the background updates go through the global handle and need
// the rows to be visible. A failed lookup just leaves the lecture without
// metadata.
func fetchMissingVideoMeta(lectures []courseModels.Lecture) {
	if !config.AppConfig.VideoMetaLookup {
		return
	}
	for _, lecture := range lectures {
		if lecture.VideoMeta != nil || lecture.VideoURL == "" {
			continue
		}
		go func(lectureID uint, videoURL string) {
			meta, err := utils.FetchVideoMeta(videoURL)
			if err != nil {
				log.Printf("Error fetching video metadata for lecture %d: %v", lectureID, err)
				return
			}
			if err := database.Database.Db.Model(&courseModels.Lecture{}).
				Where("id = ?", lectureID).Update("video_meta", meta).Error; err != nil {
				log.Printf("Error saving video metadata for lecture %d: %v", lectureID, err)
			}
		}(lecture.ID, lecture.VideoURL)
	}
}
