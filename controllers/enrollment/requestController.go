package enrollmentController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	enrollmentValidator "lms/validators/enrollment"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// findCourseByRef resolves a published course by numeric id or by slug
func findCourseByRef(db *gorm.DB, ref string) (*models.Course, error) {
	var course models.Course

	if id, err := strconv.Atoi(ref); err == nil && id > 0 {
		if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", id, false, true).First(&course).Error; err != nil {
			return nil, err
		}
		return &course, nil
	}

	if err := db.Where("slug = ? AND is_deleted = ? AND is_published = ?", ref, false, true).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// ensurePendingEnrollment creates a PENDING enrollment for the pair unless
// one already exists. A concurrent creation racing this one loses on the
// (user_id, course_id) unique index and is treated as a no-op.
func ensurePendingEnrollment(db *gorm.DB, userID, courseID uint) error {
	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		// Pair already has an enrollment (pending or active), nothing to do
		return nil
	}

	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentPending,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

// SubmitEnrollmentRequest creates a pending enrollment request from a
// learner's claim of payment
func SubmitEnrollmentRequest(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentRequest").(*enrollmentValidator.EnrollmentRequestPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	courseRef := c.Locals("courseRef").(string)

	db := database.Database.Db

	// Resolve course by id or slug
	course, err := findCourseByRef(db, courseRef)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Payment references are unique across all live requests
	var existingRequest models.EnrollmentRequest
	if err := db.Where("payment_reference = ?", reqData.PaymentReference).First(&existingRequest).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This payment reference has already been submitted!", nil)
	}

	request := models.EnrollmentRequest{
		UserID:           userID,
		CourseID:         course.ID,
		FullName:         reqData.FullName,
		Email:            reqData.Email,
		Mobile:           reqData.Mobile,
		PaymentReference: reqData.PaymentReference,
		ScreenshotRef:    reqData.ScreenshotRef,
		Status:           models.RequestPending,
		ReferrerCode:     reqData.ReferrerCode,
	}

	if err := db.Create(&request).Error; err != nil {
		// The unique index catches references submitted in the window
		// between the check above and this insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This payment reference has already been submitted!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit enrollment request!", nil)
	}

	// A pending enrollment marks the pair as spoken for until an admin decides
	if err := ensurePendingEnrollment(db, userID, course.ID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	utils.SendRequestReceivedEmail(request.Email, request.FullName, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment request submitted successfully! Pending approval.", request)
}

// GetUserRequests returns the current user's enrollment requests
func GetUserRequests(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var requests []models.EnrollmentRequest
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment requests fetched successfully!", fiber.Map{
		"requests": requests,
		"total":    len(requests),
	})
}
