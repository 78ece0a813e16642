package enrollmentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequestID validates the :request_id path parameter
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("request_id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", uint(id))
		return c.Next()
	}
}

// RequestIDList validates a batch of request ids for delete/restore/purge
func RequestIDList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RequestIDs []uint `json:"requestIds"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.RequestIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "At least one request ID is required!", nil)
		}

		for _, id := range reqData.RequestIDs {
			if id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID in list!", nil)
			}
		}

		c.Locals("validatedRequestIDs", reqData.RequestIDs)
		return c.Next()
	}
}

// ListRequests validates pagination and the optional status filter
func ListRequests() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)
		status := c.Query("status")

		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}

		if status != "" && status != "PENDING" && status != "APPROVED" && status != "REJECTED" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status filter! Use PENDING, APPROVED or REJECTED.", nil)
		}

		c.Locals("page", page)
		c.Locals("limit", limit)
		c.Locals("statusFilter", status)
		return c.Next()
	}
}
