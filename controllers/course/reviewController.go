package courseController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitCourseReview creates or overwrites the user's review for a course.
// One review per (user, course): a second submission replaces the first.
// The course's aggregate rating is recomputed from the full review set
// after every write.
func SubmitCourseReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	reqData := c.Locals("validatedReview").(*struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Only enrolled students can review
	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil || !enrollment.IsActive() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to review it!", nil)
	}

	var review models.Review
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error; err == nil {
		// Overwrite the existing review rather than creating a duplicate
		review.Rating = reqData.Rating
		review.Comment = reqData.Comment
		if err := db.Save(&review).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
		}
	} else {
		review = models.Review{
			UserID:   userID,
			CourseID: course.ID,
			Rating:   reqData.Rating,
			Comment:  reqData.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Raced another submission from the same user; overwrite it
				if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error; err != nil {
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
				}
				review.Rating = reqData.Rating
				review.Comment = reqData.Comment
				if err := db.Save(&review).Error; err != nil {
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
				}
			} else {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
			}
		}
	}

	// Recompute failure is tolerable: the nightly resync heals it
	if err := utils.RecomputeCourseRating(db, course.ID); err != nil {
		log.Printf("Failed to recompute rating for course %d: %v", course.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully!", review)
}

// DeleteCourseReview removes the user's review and recomputes the course rating
func DeleteCourseReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var review models.Review
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if err := db.Unscoped().Delete(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	if err := utils.RecomputeCourseRating(db, uint(courseID)); err != nil {
		log.Printf("Failed to recompute rating for course %d: %v", courseID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}

// GetCourseReviews returns reviews for a course (visible to all users)
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

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
	db.Model(&models.Review{}).Where("course_id = ?", courseID).Count(&total)

	var reviews []models.Review
	if err := db.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	// Attach reviewer names
	type ReviewWithUser struct {
		models.Review
		UserName string `json:"userName"`
	}

	result := make([]ReviewWithUser, len(reviews))
	for i, r := range reviews {
		var reviewer models.User
		db.Select("name").Where("id = ?", r.UserID).First(&reviewer)
		result[i] = ReviewWithUser{
			Review:   r,
			UserName: reviewer.Name,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
