package enrollmentRoutes

import (
	controllers "lms/controllers/enrollment"
	"lms/middleware"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up all learner-facing enrollment routes
func SetupEnrollmentRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Enrollment request submission (course by id or slug)
	courseGroup.Post("/:id/request", middleware.JWTMiddleware, validators.SubmitRequest(), controllers.SubmitEnrollmentRequest)

	// Day completion and direct progress updates
	courseGroup.Post("/:id/day/:day/completion", middleware.JWTMiddleware, validators.SetDayCompletion(), controllers.SetDayCompletion)
	courseGroup.Post("/:id/progress", middleware.JWTMiddleware, validators.SetProgress(), controllers.SetUserProgress)

	userGroup := app.Group("/user")
	userGroup.Get("/requests", middleware.JWTMiddleware, controllers.GetUserRequests)
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
	userGroup.Get("/referral", middleware.JWTMiddleware, controllers.GetMyReferral)
}
