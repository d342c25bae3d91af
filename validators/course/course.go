package courseValidator

import (
	"encoding/json"
	"strconv"
	"strings"

	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var courseLevels = map[string]bool{
	"BEGINNER":     true,
	"INTERMEDIATE": true,
	"ADVANCED":     true,
}

// CourseID validates the :id path param and stores it as an int
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "Invalid course id!",
			})
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// LectureParams validates the :id and :lectureId path params
func LectureParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		courseID, err := strconv.Atoi(c.Params("id"))
		if err != nil || courseID < 1 {
			errors["id"] = "Invalid course id!"
		}

		lectureID, err := strconv.Atoi(c.Params("lectureId"))
		if err != nil || lectureID < 1 {
			errors["lectureId"] = "Invalid lecture id!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("lectureID", lectureID)
		return c.Next()
	}
}

// RequestID validates the :id path param for access-request routes
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "Invalid request id!",
			})
		}
		c.Locals("requestID", id)
		return c.Next()
	}
}

func validateLectures(inputs []controllers.LectureInput, errors map[string]string) {
	for i, lecture := range inputs {
		key := "lectures[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(lecture.Title) == "" {
			errors[key+".title"] = "Lecture title is required!"
		}
		if strings.TrimSpace(lecture.VideoURL) == "" {
			errors[key+".video_url"] = "Lecture video URL is required!"
		}
	}
}

// CreateCourse validates the multipart course-creation form. The lecture
// list arrives as a JSON string alongside the thumbnail file.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		input := &controllers.CreateCourseInput{
			Title:       strings.TrimSpace(c.FormValue("title")),
			Subtitle:    strings.TrimSpace(c.FormValue("subtitle")),
			Description: strings.TrimSpace(c.FormValue("description")),
			Category:    strings.TrimSpace(c.FormValue("category")),
			Level:       strings.TrimSpace(c.FormValue("level")),
		}

		if input.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(input.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if input.Category == "" {
			errors["category"] = "Category is required!"
		}

		if input.Level == "" {
			input.Level = "BEGINNER"
		} else if !courseLevels[input.Level] {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}

		if priceValue := c.FormValue("price"); priceValue != "" {
			price, err := strconv.Atoi(priceValue)
			if err != nil || price < 0 {
				errors["price"] = "Price must be a non-negative whole number!"
			} else {
				input.Price = price
			}
		}

		if lecturesValue := c.FormValue("lectures"); lecturesValue != "" {
			if err := json.Unmarshal([]byte(lecturesValue), &input.Lectures); err != nil {
				errors["lectures"] = "Lectures must be a valid JSON array!"
			} else {
				validateLectures(input.Lectures, errors)
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", input)
		return c.Next()
	}
}

// UpdateCourse validates the JSON course-update body. All fields are
// optional; a present lecture list replaces the existing one.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.UpdateCourseInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Category != nil && strings.TrimSpace(*reqData.Category) == "" {
			errors["category"] = "Category cannot be empty!"
		}
		if reqData.Level != nil && !courseLevels[*reqData.Level] {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must be a non-negative whole number!"
		}
		if reqData.Lectures != nil {
			validateLectures(*reqData.Lectures, errors)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// PublishCourse validates the publish toggle body
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Status != "true" && reqData.Status != "false" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be \"true\" or \"false\"!",
			})
		}

		c.Locals("publishStatus", reqData.Status == "true")
		return c.Next()
	}
}

// Decision validates the access-request decision body
func Decision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Approve *bool `json:"approve"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Approve == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"approve": "Approve flag is required!",
			})
		}

		c.Locals("decisionApprove", *reqData.Approve)
		return c.Next()
	}
}

// Progress validates the lecture-progress body. At least one of viewed or
// played must be present, and played must be a fraction in [0, 1].
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.ProgressInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Viewed == nil && reqData.Played == nil {
			errors["body"] = "Either viewed or played is required!"
		}
		if reqData.Played != nil && (*reqData.Played < 0 || *reqData.Played > 1) {
			errors["played"] = "Played must be a fraction between 0 and 1!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
