package controllers

import (
	"lms/database"
	"lms/middleware"
	courseService "lms/services/course"

	"github.com/gofiber/fiber/v2"
)

// ProgressInput is produced by the lecture-progress validator. Viewed is the
// explicit flag; Played is the player-reported fraction in [0, 1].
type ProgressInput struct {
	Viewed *bool    `json:"viewed"`
	Played *float64 `json:"played"`
}

// UpdateLectureProgress upserts the viewed flag for a lecture. The player
// reports a played fraction continuously; crossing the viewed threshold marks
// the lecture viewed, a fraction below it changes nothing. Only the explicit
// viewed field can clear the flag (rewatching must not erase progress).
func UpdateLectureProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lectureID := c.Locals("lectureID").(int)
	input := c.Locals("validatedProgress").(*ProgressInput)

	var viewed *bool
	if input.Viewed != nil {
		viewed = input.Viewed
	} else if input.Played != nil && *input.Played >= courseService.ViewedThreshold {
		crossed := true
		viewed = &crossed
	}

	summary, err := courseService.UpdateLectureProgress(database.Database.Db, userID, uint(courseID), uint(lectureID), viewed)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", summary)
}

// GetCourseProgress returns per-lecture viewed flags, the derived percent
// and the explicit completed flag.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	summary, err := courseService.GetCourseProgress(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", summary)
}

// CompleteCourse marks the course completed for the caller
func CompleteCourse(c *fiber.Ctx) error {
	return setCourseCompleted(c, true, "Course marked as completed!")
}

// IncompleteCourse clears the completed flag for the caller
func IncompleteCourse(c *fiber.Ctx) error {
	return setCourseCompleted(c, false, "Course marked as incomplete!")
}

func setCourseCompleted(c *fiber.Ctx, completed bool, message string) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	summary, err := courseService.SetCourseCompleted(database.Database.Db, userID, uint(courseID), completed)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, summary)
}
