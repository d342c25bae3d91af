package controllers

import (
	"lms/database"
	"lms/middleware"
	courseService "lms/services/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollFree enrolls the user directly into a zero-price course, bypassing
// the access-request workflow. Idempotent.
func EnrollFree(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	enrollment, err := courseService.EnrollFree(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", fiber.Map{
		"courseId":    enrollment.CourseID,
		"enrolled_at": enrollment.CreatedAt,
	})
}

// RequestAccess submits a manual payment-approval request for a paid course.
// Returns 409 when a pending request already exists; allowed again after a
// decline.
func RequestAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	request, err := courseService.RequestAccess(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Access request submitted successfully!", request)
}

// GetAccessStatus is the pollable resolver snapshot for (caller, course)
func GetAccessStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	state, course, err := courseService.ResolveAccess(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return domainErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access status fetched successfully!", fiber.Map{
		"course_id": course.ID,
		"status":    state,
		"purchased": state == courseService.AccessApproved,
	})
}
