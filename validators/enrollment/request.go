package enrollmentValidator

import (
	"lms/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// EnrollmentRequestPayload is the learner-submitted claim of payment
type EnrollmentRequestPayload struct {
	FullName         string `json:"fullName" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Mobile           string `json:"mobile" validate:"omitempty,min=7,max=15"`
	PaymentReference string `json:"paymentReference" validate:"required,alphanum,min=6,max=40"`
	ScreenshotRef    string `json:"screenshotRef" validate:"omitempty,max=255"`
	ReferrerCode     string `json:"referrerCode" validate:"omitempty,alphanum,max=20"`
}

// SubmitRequest validates the enrollment request body and the course reference
// (numeric id or slug) from the path.
func SubmitRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseRef := strings.TrimSpace(c.Params("id"))
		if courseRef == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		reqData := new(EnrollmentRequestPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "FullName":
					errors["fullName"] = "Full name must be between 2 and 100 characters!"
				case "Email":
					errors["email"] = "A valid email address is required!"
				case "Mobile":
					errors["mobile"] = "Mobile number must be between 7 and 15 characters!"
				case "PaymentReference":
					errors["paymentReference"] = "Payment reference must be 6-40 alphanumeric characters!"
				case "ScreenshotRef":
					errors["screenshotRef"] = "Screenshot reference is too long!"
				case "ReferrerCode":
					errors["referrerCode"] = "Referrer code must be alphanumeric!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseRef", courseRef)
		c.Locals("validatedEnrollmentRequest", reqData)
		return c.Next()
	}
}
