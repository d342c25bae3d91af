package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog is public; everything else needs a token.
	courseGroup.Get("/list", controllers.GetPublishedCourses)

	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Post("/:id/enroll-free", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollFree)
	courseGroup.Post("/:id/access-request", middleware.JWTMiddleware, validators.CourseID(), controllers.RequestAccess)
	courseGroup.Get("/:id/access", middleware.JWTMiddleware, validators.CourseID(), controllers.GetAccessStatus)
	courseGroup.Get("/:id/access/stream", middleware.JWTMiddleware, validators.CourseID(), controllers.StreamAccessStatus)

	courseGroup.Put("/:id/lecture/:lectureId/progress", middleware.JWTMiddleware, validators.LectureParams(), validators.Progress(), controllers.UpdateLectureProgress)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)
	courseGroup.Put("/:id/complete", middleware.JWTMiddleware, validators.CourseID(), controllers.CompleteCourse)
	courseGroup.Put("/:id/incomplete", middleware.JWTMiddleware, validators.CourseID(), controllers.IncompleteCourse)
}
