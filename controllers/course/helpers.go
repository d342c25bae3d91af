package controllers

import (
	"errors"
	"log"

	"lms/middleware"
	courseService "lms/services/course"

	"github.com/gofiber/fiber/v2"
)

// domainErrorResponse maps service errors to HTTP responses with their
// machine-readable kind. Anything that is not a DomainError is a server
// fault.
func domainErrorResponse(c *fiber.Ctx, err error) error {
	var dErr *courseService.DomainError
	if errors.As(err, &dErr) {
		status := fiber.StatusInternalServerError
		switch dErr.Kind {
		case courseService.KindNotFound:
			status = fiber.StatusNotFound
		case courseService.KindForbidden:
			status = fiber.StatusForbidden
		case courseService.KindConflict:
			status = fiber.StatusConflict
		case courseService.KindPriceNotZero, courseService.KindInvalidLecture:
			status = fiber.StatusBadRequest
		case courseService.KindValidation:
			status = fiber.StatusUnprocessableEntity
		}
		return middleware.ErrorResponse(c, status, dErr.Kind, dErr.Message)
	}

	log.Printf("Unexpected error: %v", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not process request!", nil)
}
