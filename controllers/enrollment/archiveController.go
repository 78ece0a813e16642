package enrollmentController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminDeleteRequests soft-deletes enrollment requests by moving them into
// the archive. The archived copies are returned so the client can offer an
// undo. A request still pending also loses its pending enrollment.
func AdminDeleteRequests(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if err != nil {
		return err
	}

	requestIDs := c.Locals("validatedRequestIDs").([]uint)
	db := database.Database.Db

	archived := make([]models.ArchivedEnrollmentRequest, 0, len(requestIDs))

	for _, id := range requestIDs {
		var request models.EnrollmentRequest
		if err := db.Where("id = ?", id).First(&request).Error; err != nil {
			continue
		}

		entry := models.ArchivedEnrollmentRequest{
			OriginalID:        request.ID,
			OriginalCreatedAt: request.CreatedAt,
			OriginalUpdatedAt: request.UpdatedAt,
			UserID:            request.UserID,
			CourseID:          request.CourseID,
			FullName:          request.FullName,
			Email:             request.Email,
			Mobile:            request.Mobile,
			PaymentReference:  request.PaymentReference,
			ScreenshotRef:     request.ScreenshotRef,
			Status:            request.Status,
			ReferrerCode:      request.ReferrerCode,
			ApprovedAt:        request.ApprovedAt,
			ApprovedBy:        request.ApprovedBy,
			DeletedBy:         admin.ID,
			ArchivedAt:        time.Now(),
		}

		tx := db.Begin()

		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to archive enrollment request %d: %v", id, err)
			continue
		}

		// Remove from the primary store; the token becomes reusable
		if err := tx.Unscoped().Delete(&request).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to delete enrollment request %d: %v", id, err)
			continue
		}

		// A pending request never activated its enrollment, so the
		// placeholder goes with it
		if request.Status == models.RequestPending {
			if err := tx.Unscoped().
				Where("user_id = ? AND course_id = ? AND status = ?", request.UserID, request.CourseID, models.EnrollmentPending).
				Delete(&models.Enrollment{}).Error; err != nil {
				tx.Rollback()
				log.Printf("Failed to delete pending enrollment for request %d: %v", id, err)
				continue
			}
		}

		tx.Commit()
		archived = append(archived, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment requests deleted!", fiber.Map{
		"deleted": archived,
		"count":   len(archived),
	})
}

// AdminRestoreRequests re-inserts archived requests into the primary store
// with their original ids and timestamps. Ids missing from the archive are
// silently skipped.
func AdminRestoreRequests(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	requestIDs := c.Locals("validatedRequestIDs").([]uint)
	db := database.Database.Db

	restored := 0

	for _, id := range requestIDs {
		var entry models.ArchivedEnrollmentRequest
		if err := db.Where("original_id = ?", id).First(&entry).Error; err != nil {
			continue
		}

		request := models.EnrollmentRequest{
			Model: gorm.Model{
				ID:        entry.OriginalID,
				CreatedAt: entry.OriginalCreatedAt,
				UpdatedAt: entry.OriginalUpdatedAt,
			},
			UserID:           entry.UserID,
			CourseID:         entry.CourseID,
			FullName:         entry.FullName,
			Email:            entry.Email,
			Mobile:           entry.Mobile,
			PaymentReference: entry.PaymentReference,
			ScreenshotRef:    entry.ScreenshotRef,
			Status:           entry.Status,
			ReferrerCode:     entry.ReferrerCode,
			ApprovedAt:       entry.ApprovedAt,
			ApprovedBy:       entry.ApprovedBy,
		}

		tx := db.Begin()

		if err := tx.Create(&request).Error; err != nil {
			// The original id or payment reference is live again, most
			// likely because the token was reused after deletion
			tx.Rollback()
			log.Printf("Failed to restore enrollment request %d: %v", id, err)
			continue
		}

		// A pending request gets its pending enrollment back, stamped with
		// the original submission time rather than the restore time
		if entry.Status == models.RequestPending {
			enrollment := models.Enrollment{
				Model: gorm.Model{
					CreatedAt: entry.OriginalCreatedAt,
					UpdatedAt: entry.OriginalUpdatedAt,
				},
				UserID:   entry.UserID,
				CourseID: entry.CourseID,
				Status:   models.EnrollmentPending,
			}
			if err := tx.Create(&enrollment).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
				tx.Rollback()
				log.Printf("Failed to restore pending enrollment for request %d: %v", id, err)
				continue
			}
		}

		if err := tx.Unscoped().Delete(&entry).Error; err != nil {
			tx.Rollback()
			log.Printf("Failed to remove archive entry for request %d: %v", id, err)
			continue
		}

		tx.Commit()
		restored++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment requests restored!", fiber.Map{
		"restored": restored,
	})
}

// AdminPurgeArchive permanently removes archive entries. Irreversible; the
// primary store is not touched.
func AdminPurgeArchive(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	requestIDs := c.Locals("validatedRequestIDs").([]uint)
	db := database.Database.Db

	result := db.Unscoped().Where("original_id IN ?", requestIDs).Delete(&models.ArchivedEnrollmentRequest{})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to purge archive entries!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Archive entries purged!", fiber.Map{
		"purged": result.RowsAffected,
	})
}

// AdminListArchive returns archived enrollment requests
func AdminListArchive(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&models.ArchivedEnrollmentRequest{}).Count(&total)

	var entries []models.ArchivedEnrollmentRequest
	if err := db.Offset(offset).Limit(limit).Order("archived_at desc").Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch archive!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Archive fetched!", fiber.Map{
		"entries": entries,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
