package courseValidator

import (
	"lms/middleware"
	"lms/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetCourseDetail validates the course reference (numeric id or slug)
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseRef := strings.TrimSpace(c.Params("id"))
		if courseRef == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		c.Locals("courseRef", courseRef)
		return c.Next()
	}
}

// CourseList validates pagination for course listings
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}

		c.Locals("page", page)
		c.Locals("limit", limit)
		return c.Next()
	}
}

// CreateCourseAdmin validates the admin course creation payload
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Author       string `json:"author"`
			Duration     string `json:"duration"`
			ThumbnailURL string `json:"thumbnailUrl"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters!"
		}

		// Progress tracking needs a day count, so the free-text duration
		// must be parseable up front.
		if reqData.Duration == "" {
			errors["duration"] = "Duration is required!"
		} else if _, err := utils.ParseDurationDays(reqData.Duration); err != nil {
			errors["duration"] = "Duration must contain a day count, e.g. '30 Days' or '6 Weeks'!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseID validates a strictly numeric :id path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
