package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/controllers/userControllers"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupInstructorRoutes sets up course authoring and access-request
// management. Everything here requires the INSTRUCTOR role.
func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/instructor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor))

	// Course authoring
	instructorGroup.Post("/course", validators.CreateCourse(), controllers.CreateCourse)
	instructorGroup.Get("/courses", controllers.GetInstructorCourses)
	instructorGroup.Get("/course/:id", validators.CourseID(), controllers.GetInstructorCourseDetails)
	instructorGroup.Put("/course/:id", validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	instructorGroup.Put("/course/:id/publish", validators.CourseID(), validators.PublishCourse(), controllers.PublishCourse)
	instructorGroup.Delete("/course/:id", validators.CourseID(), controllers.DeleteCourse)

	// Access-request workflow
	instructorGroup.Get("/access-requests", controllers.ListAccessRequests)
	instructorGroup.Put("/access-request/:id", validators.RequestID(), validators.Decision(), controllers.DecideAccessRequest)

	// Student roster
	instructorGroup.Get("/students", userControllers.ListStudents)
}
