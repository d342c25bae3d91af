package controllers

import (
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/notify"
	courseService "lms/services/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ListAccessRequests returns access requests for the caller's courses.
// Defaults to pending only; ?status=APPROVED|DECLINED|PENDING filters.
func ListAccessRequests(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	status := c.Query("status", courseModels.RequestPending)

	requests, err := courseService.RequestsForInstructor(database.Database.Db, userID, status)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	result := make([]fiber.Map, 0, len(requests))
	for _, request := range requests {
		var student models.User
		database.Database.Db.Select("id, name, email").First(&student, request.UserID)

		var course courseModels.Course
		database.Database.Db.Select("id, title, price").First(&course, request.CourseID)

		result = append(result, fiber.Map{
			"id":           request.ID,
			"request_ref":  request.RequestRef,
			"status":       request.Status,
			"requested_at": request.CreatedAt,
			"decided_at":   request.DecidedAt,
			"student":      fiber.Map{"id": student.ID, "name": student.Name, "email": student.Email},
			"course":       fiber.Map{"id": course.ID, "title": course.Title, "price": course.Price},
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access requests fetched successfully!", fiber.Map{
		"requests": result,
	})
}

// DecideAccessRequest approves or declines a pending access request for one
// of the caller's courses. Approval enrolls the student atomically; deciding
// an already approved request again is a no-op for approve and a conflict
// for decline.
func DecideAccessRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)
	approve := c.Locals("decisionApprove").(bool)

	request, err := courseService.DecideRequest(database.Database.Db, uint(requestID), userID, approve)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	status := courseService.AccessDeclined
	if approve {
		status = courseService.AccessApproved
	}

	notify.DefaultHub.Publish(notify.AccessEvent{
		UserID:     request.UserID,
		CourseID:   request.CourseID,
		Status:     string(status),
		RequestRef: request.RequestRef,
		At:         time.Now(),
	})

	go func(req courseModels.AccessRequest, approved bool) {
		var student models.User
		if err := database.Database.Db.First(&student, req.UserID).Error; err != nil {
			log.Printf("Error loading student %d for decision email: %v", req.UserID, err)
			return
		}
		var course courseModels.Course
		if err := database.Database.Db.First(&course, req.CourseID).Error; err != nil {
			log.Printf("Error loading course %d for decision email: %v", req.CourseID, err)
			return
		}
		if err := utils.SendAccessDecisionEmail(student.Name, student.Email, course.Title, approved); err != nil {
			log.Printf("Error sending decision email to %s: %v", student.Email, err)
		}
	}(*request, approve)

	message := "Access request declined!"
	if approve {
		message = "Access request approved!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"request": request,
	})
}
