package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up user-facing course and review routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Reviews
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, validators.SubmitReview(), controllers.SubmitCourseReview)
	courseGroup.Delete("/:id/review", middleware.JWTMiddleware, validators.CourseID(), controllers.DeleteCourseReview)
	courseGroup.Get("/:id/reviews", validators.CourseID(), controllers.GetCourseReviews)
}

// SetupAdminCourseRoutes sets up admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminPublishCourse)
}
