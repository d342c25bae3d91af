package authValidator

import (
	authController "lms/controllers/auth"
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// fieldErrors flattens validator output into a field -> message map for the
// standard validation response.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			errors[fieldError.Field()] = fieldError.Field() + " is required!"
		case "email":
			errors[fieldError.Field()] = "Invalid email!"
		case "min":
			errors[fieldError.Field()] = fieldError.Field() + " must be at least " + fieldError.Param() + " characters long!"
		case "max":
			errors[fieldError.Field()] = fieldError.Field() + " must be at most " + fieldError.Param() + " characters long!"
		case "oneof":
			errors[fieldError.Field()] = fieldError.Field() + " must be one of: " + fieldError.Param() + "!"
		default:
			errors[fieldError.Field()] = "Invalid " + fieldError.Field() + "!"
		}
	}
	return errors
}

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(authController.SignupInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(authController.LoginInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
