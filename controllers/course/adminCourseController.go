package courseController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateCourse creates a course in DRAFT state. The slug is derived
// from the title; the duration must carry a parseable day count because
// progress tracking depends on it.
func AdminCreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Verify admin role
	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role IN ?", userID, []string{"ADMIN", "SUPER-ADMIN"}).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Author       string `json:"author"`
		Duration     string `json:"duration"`
		ThumbnailURL string `json:"thumbnailUrl"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		Title:        reqData.Title,
		Slug:         utils.Slugify(reqData.Title),
		Description:  reqData.Description,
		Author:       reqData.Author,
		Duration:     reqData.Duration,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       "DRAFT",
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A course with this title already exists!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminPublishCourse makes a course visible and enrollable
func AdminPublishCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role IN ?", userID, []string{"ADMIN", "SUPER-ADMIN"}).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsPublished = true
	course.Status = "ACTIVE"

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// GetAllCourses returns published courses with their derived rating fields
func GetAllCourses(c *fiber.Ctx) error {
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a single course, resolved by id or slug, along
// with the caller's enrollment if any
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseRef := c.Locals("courseRef").(string)
	db := database.Database.Db

	var course models.Course
	var err error
	if id, convErr := strconv.Atoi(courseRef); convErr == nil && id > 0 {
		err = db.Where("id = ? AND is_deleted = ? AND is_published = ?", id, false, true).First(&course).Error
	} else {
		err = db.Where("slug = ? AND is_deleted = ? AND is_published = ?", courseRef, false, true).First(&course).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment models.Enrollment
	isEnrolled := db.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&enrollment).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":      course,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
	})
}
