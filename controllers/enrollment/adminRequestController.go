package enrollmentController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// requireAdmin loads the caller and checks for an admin role
func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role IN ?", userID, []string{"ADMIN", "SUPER-ADMIN"}).First(&admin).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	return &admin, nil
}

// AdminListRequests returns enrollment requests for review, with payment
// screenshots resolved to signed URLs
func AdminListRequests(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)
	status := c.Locals("statusFilter").(string)
	offset := (page - 1) * limit

	db := database.Database.Db

	query := db.Model(&models.EnrollmentRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var requests []models.EnrollmentRequest
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment requests!", nil)
	}

	// Enrich with course titles and screenshot URLs
	type RequestWithEvidence struct {
		models.EnrollmentRequest
		CourseTitle   string `json:"courseTitle"`
		ScreenshotURL string `json:"screenshotUrl"`
	}

	result := make([]RequestWithEvidence, len(requests))
	for i, r := range requests {
		var course models.Course
		db.Select("title").Where("id = ?", r.CourseID).First(&course)

		result[i] = RequestWithEvidence{
			EnrollmentRequest: r,
			CourseTitle:       course.Title,
			ScreenshotURL:     utils.ResolveScreenshotURL(r.ScreenshotRef),
		}
	}

	// Requests submitted since midnight, for the admin dashboard header
	var submittedToday int64
	db.Model(&models.EnrollmentRequest{}).Where("created_at >= ?", now.BeginningOfDay()).Count(&submittedToday)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment requests fetched!", fiber.Map{
		"requests":       result,
		"submittedToday": submittedToday,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// approvePendingRequest performs the PENDING -> APPROVED transition and all
// of its side effects. The transition itself is a conditional update on the
// PENDING status, so of two concurrent approvals only one can win it; the
// loser gets ok=false and must not repeat any side effect. The student
// counter moves only when the enrollment promotion touched a row, and the
// referral credit fires only for the winning call, so both land exactly
// once per request however many approvals race.
func approvePendingRequest(db *gorm.DB, request *models.EnrollmentRequest, adminID uint) (bool, error) {
	approvedAt := time.Now()

	tx := db.Begin()

	transition := tx.Model(&models.EnrollmentRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestPending).
		Updates(map[string]interface{}{
			"status":      models.RequestApproved,
			"approved_at": approvedAt,
			"approved_by": adminID,
		})
	if transition.Error != nil {
		tx.Rollback()
		return false, transition.Error
	}
	if transition.RowsAffected == 0 {
		// A concurrent call already moved the request out of PENDING
		tx.Rollback()
		return false, nil
	}

	// Promote the enrollment, again as a conditional update: only the call
	// that flips PENDING to ENROLLED may move the student counter.
	firstActivation := false

	promotion := tx.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", request.UserID, request.CourseID, models.EnrollmentPending).
		Update("status", models.EnrollmentEnrolled)
	if promotion.Error != nil {
		tx.Rollback()
		return false, promotion.Error
	}
	if promotion.RowsAffected > 0 {
		firstActivation = true
	} else {
		var enrollment models.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ?", request.UserID, request.CourseID).First(&enrollment).Error; err != nil {
			enrollment = models.Enrollment{
				UserID:   request.UserID,
				CourseID: request.CourseID,
				Status:   models.EnrollmentEnrolled,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					tx.Rollback()
					return false, err
				}
				// Lost a creation race; promote the winner's row if it is
				// still pending
				retry := tx.Model(&models.Enrollment{}).
					Where("user_id = ? AND course_id = ? AND status = ?", request.UserID, request.CourseID, models.EnrollmentPending).
					Update("status", models.EnrollmentEnrolled)
				if retry.Error != nil {
					tx.Rollback()
					return false, retry.Error
				}
				firstActivation = retry.RowsAffected > 0
			} else {
				firstActivation = true
			}
		}
		// An existing non-pending enrollment is already active; nothing to do
	}

	if firstActivation {
		if err := tx.Model(&models.Course{}).Where("id = ?", request.CourseID).
			UpdateColumn("student_count", gorm.Expr("student_count + 1")).Error; err != nil {
			tx.Rollback()
			return false, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}

	request.Status = models.RequestApproved
	request.ApprovedAt = &approvedAt
	request.ApprovedBy = &adminID

	// Referral credit is tied to winning the transition above, so it lands
	// at most once per request. A bad referrer code must never fail the
	// approval.
	if request.ReferrerCode != "" {
		if _, err := creditReferral(db, request.ReferrerCode); err != nil {
			log.Printf("Referral credit skipped for request %d: %v", request.ID, err)
		}
	}

	return true, nil
}

// AdminApproveRequest approves a pending enrollment request. Approval is
// idempotent: re-approving an approved request is a no-op success, so a
// double-click from a slow admin UI cannot double-count students or
// referral credits.
func AdminApproveRequest(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if err != nil {
		return err
	}

	requestID := c.Locals("requestID").(uint)
	db := database.Database.Db

	var request models.EnrollmentRequest
	if err := db.Where("id = ?", requestID).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment request not found!", nil)
	}

	if request.Status == models.RequestApproved {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Request already approved!", request)
	}

	if request.Status == models.RequestRejected {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is already rejected and cannot be approved!", nil)
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", request.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	ok, err := approvePendingRequest(db, &request, admin.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve request!", nil)
	}
	if !ok {
		// Lost the transition to a concurrent call; report its outcome
		if err := db.Where("id = ?", requestID).First(&request).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment request not found!", nil)
		}
		if request.Status == models.RequestApproved {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Request already approved!", request)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is already rejected and cannot be approved!", nil)
	}

	// Notification is fire-and-forget; the enrollment is already committed
	utils.SendEnrollmentApprovedEmail(request.Email, request.FullName, course.Title)

	var enrollment models.Enrollment
	db.Where("user_id = ? AND course_id = ?", request.UserID, request.CourseID).First(&enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment request approved!", fiber.Map{
		"request":    request,
		"enrollment": enrollment,
	})
}

// AdminRejectRequest rejects a pending enrollment request. An approved
// request cannot be un-approved; a pending enrollment created by the
// request is removed.
func AdminRejectRequest(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	requestID := c.Locals("requestID").(uint)
	db := database.Database.Db

	var request models.EnrollmentRequest
	if err := db.Where("id = ?", requestID).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment request not found!", nil)
	}

	if request.Status == models.RequestApproved {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is already approved and cannot be rejected!", nil)
	}

	if request.Status == models.RequestRejected {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Request already rejected!", request)
	}

	tx := db.Begin()

	// Conditional on PENDING so a reject racing an approve cannot overwrite
	// an already-approved request
	transition := tx.Model(&models.EnrollmentRequest{}).
		Where("id = ? AND status = ?", request.ID, models.RequestPending).
		Update("status", models.RequestRejected)
	if transition.Error != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject request!", nil)
	}
	if transition.RowsAffected == 0 {
		tx.Rollback()
		if err := db.Where("id = ?", request.ID).First(&request).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment request not found!", nil)
		}
		if request.Status == models.RequestRejected {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Request already rejected!", request)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request is already approved and cannot be rejected!", nil)
	}
	request.Status = models.RequestRejected

	// Only a never-activated enrollment goes away; enrolled/started/completed
	// pairs were activated by an earlier approval and stay untouched
	if err := tx.Unscoped().
		Where("user_id = ? AND course_id = ? AND status = ?", request.UserID, request.CourseID, models.EnrollmentPending).
		Delete(&models.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove pending enrollment!", nil)
	}

	tx.Commit()

	var course models.Course
	if err := db.Select("title").Where("id = ?", request.CourseID).First(&course).Error; err == nil {
		utils.SendRequestRejectedEmail(request.Email, request.FullName, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment request rejected!", request)
}
