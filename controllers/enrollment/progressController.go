package enrollmentController

import (
	"fmt"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
)

// deriveEnrollmentStatus maps a progress percentage onto the enrollment
// status ladder. Zero progress means the learner is enrolled but has not
// started; anything in between is started; 100 is completed.
func deriveEnrollmentStatus(progress int) string {
	switch {
	case progress >= 100:
		return models.EnrollmentCompleted
	case progress > 0:
		return models.EnrollmentStarted
	default:
		return models.EnrollmentEnrolled
	}
}

// applyProgress recomputes progress and status from the completed-day set
// and stamps access time
func applyProgress(enrollment *models.Enrollment, totalDays int) {
	progress := int(math.Round(float64(len(enrollment.CompletedDays)) / float64(totalDays) * 100))
	if progress > 100 {
		progress = 100
	}

	enrollment.Progress = progress
	enrollment.Status = deriveEnrollmentStatus(progress)

	if enrollment.Status == models.EnrollmentCompleted {
		if enrollment.CompletedAt == nil {
			completedAt := time.Now()
			enrollment.CompletedAt = &completedAt
		}
	} else {
		enrollment.CompletedAt = nil
	}

	accessedAt := time.Now()
	enrollment.LastAccessedAt = &accessedAt
}

// SetDayCompletion marks or unmarks a course day as completed. Days must be
// completed in order: day N requires day N-1, and unmarking day N requires
// day N+1 to not be complete.
func SetDayCompletion(c *fiber.Ctx) error {
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
	day := c.Locals("day").(int)
	completed := c.Locals("completed").(bool)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if enrollment.Status == models.EnrollmentPending {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enrollment is awaiting approval!", nil)
	}

	totalDays, err := utils.ParseDurationDays(course.Duration)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Course duration is not configured correctly!", nil)
	}

	if day > totalDays {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Day must be between 1 and %d!", totalDays), nil)
	}

	if completed {
		if enrollment.HasCompletedDay(day) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Day already marked as completed!", enrollment)
		}
		if day > 1 && !enrollment.HasCompletedDay(day-1) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, fmt.Sprintf("Complete day %d before day %d!", day-1, day), nil)
		}
		enrollment.CompletedDays = append(enrollment.CompletedDays, day)
	} else {
		if !enrollment.HasCompletedDay(day) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Day is not marked as completed!", enrollment)
		}
		if enrollment.HasCompletedDay(day + 1) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, fmt.Sprintf("Unmark day %d before day %d!", day+1, day), nil)
		}
		days := make([]int, 0, len(enrollment.CompletedDays)-1)
		for _, d := range enrollment.CompletedDays {
			if d != day {
				days = append(days, d)
			}
		}
		enrollment.CompletedDays = days
	}

	applyProgress(&enrollment, totalDays)

	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// SetUserProgress sets the progress percentage directly, bypassing the
// day-order rules. Used by admin tooling and bulk imports.
func SetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	progress := c.Locals("progress").(int)
	statusOverride := c.Locals("statusOverride").(string)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if enrollment.Status == models.EnrollmentPending {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enrollment is awaiting approval!", nil)
	}

	enrollment.Progress = progress
	if statusOverride != "" {
		enrollment.Status = statusOverride
	} else {
		enrollment.Status = deriveEnrollmentStatus(progress)
	}

	if enrollment.Status == models.EnrollmentCompleted {
		if enrollment.CompletedAt == nil {
			completedAt := time.Now()
			enrollment.CompletedAt = &completedAt
		}
	} else {
		enrollment.CompletedAt = nil
	}

	accessedAt := time.Now()
	enrollment.LastAccessedAt = &accessedAt

	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// GetUserEnrollments gets all enrollments for the current user
func GetUserEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type EnrollmentWithCourse struct {
		models.Enrollment
		CourseTitle    string `json:"course_title"`
		CourseDuration string `json:"course_duration"`
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course models.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:     e,
			CourseTitle:    course.Title,
			CourseDuration: course.Duration,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
