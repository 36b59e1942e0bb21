package enrollmentValidator

import (
	"strconv"
	"strings"

	"kavyalearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseParam validates the :courseId route parameter
func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CreateEnrollment validates the create-enrollment body {courseId}
func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		c.Locals("courseID", int(reqData.CourseID))
		return c.Next()
	}
}

// ActivateEnrollment validates the :enrollmentId param and {paymentId} body
func ActivateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentIDStr := strings.TrimSpace(c.Params("enrollmentId"))
		enrollmentID, err := strconv.Atoi(enrollmentIDStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		reqData := new(struct {
			PaymentID uint `json:"paymentId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.PaymentID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment ID is required!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("paymentID", reqData.PaymentID)
		return c.Next()
	}
}

// UpdateEnrollment validates the :enrollmentId param and the partial update body
func UpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentIDStr := strings.TrimSpace(c.Params("enrollmentId"))
		enrollmentID, err := strconv.Atoi(enrollmentIDStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}

		reqData := new(struct {
			ProgressPercentage *float64 `json:"progressPercentage"`
			WatchHours         *float64 `json:"watchHours"`
			Completed          *bool    `json:"completed"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ProgressPercentage != nil && (*reqData.ProgressPercentage < 0 || *reqData.ProgressPercentage > 100) {
			errors["progressPercentage"] = "Progress must be between 0 and 100!"
		}

		if reqData.WatchHours != nil && *reqData.WatchHours < 0 {
			errors["watchHours"] = "Watch hours cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("validatedEnrollmentUpdate", reqData)
		return c.Next()
	}
}

// FreeEnrollment validates the admin free-grant body {studentId, courseId}
func FreeEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID uint `json:"studentId"`
			CourseID  uint `json:"courseId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.StudentID == 0 {
			errors["studentId"] = "Student ID is required!"
		}
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFreeEnrollment", reqData)
		return c.Next()
	}
}
