package userControllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the current user with their enrolled courses
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&enrollments)

	enrolled := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollment.CourseID, false).
			First(&course).Error; err != nil {
			continue
		}
		enrolled = append(enrolled, fiber.Map{
			"course_id":     course.ID,
			"title":         course.Title,
			"thumbnail_url": course.ThumbnailURL,
			"enrolled_at":   enrollment.CreatedAt,
		})
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":             user,
		"enrolled_courses": enrolled,
	})
}

// UpdateProfile updates the current user's name and mobile
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var input struct {
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Mobile != "" {
		user.Mobile = input.Mobile
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// ListStudents returns all USER-role accounts (instructor dashboard)
func ListStudents(c *fiber.Ctx) error {
	var users []models.User
	err := database.Database.Db.Where("role = ? AND is_deleted = ?", models.RoleUser, false).
		Order("created_at desc").Find(&users).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
	})
}
