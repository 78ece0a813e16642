package enrollmentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SetDayCompletion validates the course id, day number and completion flag
func SetDayCompletion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		dayStr := strings.TrimSpace(c.Params("day"))
		day, err := strconv.Atoi(dayStr)
		if err != nil || day <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid day number!", nil)
		}

		reqData := new(struct {
			Completed *bool `json:"completed"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Completed == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Field 'completed' is required!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("day", day)
		c.Locals("completed", *reqData.Completed)
		return c.Next()
	}
}

// SetProgress validates a direct progress update
func SetProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Progress *int   `json:"progress"`
			Status   string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Progress == nil || *reqData.Progress < 0 || *reqData.Progress > 100 {
			errors["progress"] = "Progress must be between 0 and 100!"
		}

		if reqData.Status != "" &&
			reqData.Status != "ENROLLED" && reqData.Status != "STARTED" && reqData.Status != "COMPLETED" {
			errors["status"] = "Status must be ENROLLED, STARTED or COMPLETED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("progress", *reqData.Progress)
		c.Locals("statusOverride", reqData.Status)
		return c.Next()
	}
}
