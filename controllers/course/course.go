package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseService "lms/services/course"

	"github.com/gofiber/fiber/v2"
)

// GetPublishedCourses lists all published courses for the catalog. No auth
// required; ordering is stable (newest first).
func GetPublishedCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	err := database.Database.Db.
		Where("is_published = ? AND is_deleted = ?", true, false).
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var creator models.User
		database.Database.Db.Select("id, name").First(&creator, course.CreatorID)

		var lectureCount int64
		database.Database.Db.Model(&courseModels.Lecture{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&lectureCount)

		result = append(result, fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"subtitle":      course.Subtitle,
			"category":      course.Category,
			"level":         course.Level,
			"price":         course.Price,
			"thumbnail_url": course.ThumbnailURL,
			"creator":       fiber.Map{"id": creator.ID, "name": creator.Name},
			"lectures":      lectureCount,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
	})
}

// GetCourseDetails returns a published course enriched with the caller's
// access state. Video URLs are hidden from viewers without approved access
// unless the lecture is marked as a free preview.
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	state, course, err := courseService.ResolveAccess(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return domainErrorResponse(c, err)
	}

	// Unpublished courses are hidden unless access was already granted
	// (creator or enrolled student); unpublishing never revokes access.
	if !course.IsPublished && state != courseService.AccessApproved {
		return domainErrorResponse(c, courseService.ErrCourseNotFound)
	}

	var lectures []courseModels.Lecture
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc").Find(&lectures)

	approved := state == courseService.AccessApproved
	if !approved {
		for i := range lectures {
			if !lectures[i].IsPreviewFree {
				lectures[i].VideoURL = ""
				lectures[i].VideoMeta = nil
			}
		}
	}
	course.Lectures = lectures

	var creator models.User
	database.Database.Db.Select("id, name").First(&creator, course.CreatorID)

	var enrolledCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ?", course.ID).Count(&enrolledCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":         course,
		"creator":        fiber.Map{"id": creator.ID, "name": creator.Name},
		"enrolled_count": enrolledCount,
		"purchased":      approved,
		"status":         state,
	})
}
