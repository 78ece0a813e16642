package enrollmentRoutes

import (
	controllers "lms/controllers/enrollment"
	"lms/middleware"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminEnrollmentRoutes sets up the admin review workflow routes
func SetupAdminEnrollmentRoutes(app *fiber.App) {
	requestGroup := app.Group("/admin/enrollment-request")
	requestGroup.Post("/:request_id/approve", middleware.JWTMiddleware, validators.RequestID(), controllers.AdminApproveRequest)
	requestGroup.Post("/:request_id/reject", middleware.JWTMiddleware, validators.RequestID(), controllers.AdminRejectRequest)

	batchGroup := app.Group("/admin/enrollment-requests")
	batchGroup.Get("/list", middleware.JWTMiddleware, validators.ListRequests(), controllers.AdminListRequests)
	batchGroup.Post("/delete", middleware.JWTMiddleware, validators.RequestIDList(), controllers.AdminDeleteRequests)
	batchGroup.Post("/restore", middleware.JWTMiddleware, validators.RequestIDList(), controllers.AdminRestoreRequests)
	batchGroup.Post("/purge", middleware.JWTMiddleware, validators.RequestIDList(), controllers.AdminPurgeArchive)
	batchGroup.Get("/archive", middleware.JWTMiddleware, controllers.AdminListArchive)
}
