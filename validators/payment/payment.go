package paymentValidator

import (
	"kavyalearn/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// RecordPayment validates the payment-recording payload
func RecordPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID         uint    `json:"courseId" validate:"required"`
			Amount           float64 `json:"amount" validate:"required,gt=0"`
			Status           string  `json:"status" validate:"required,oneof=pending completed failed"`
			PaymentGateway   string  `json:"paymentGateway" validate:"required"`
			PaymentOrderID   string  `json:"paymentOrderId"`
			GatewayPaymentID string  `json:"gatewayPaymentId" validate:"required"`
			PaymentMethod    string  `json:"paymentMethod"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "CourseID":
					errors["courseId"] = "Course ID is required!"
				case "Amount":
					errors["amount"] = "Amount must be greater than 0!"
				case "Status":
					errors["status"] = "Status must be pending, completed or failed!"
				case "PaymentGateway":
					errors["paymentGateway"] = "Payment gateway is required!"
				case "GatewayPaymentID":
					errors["gatewayPaymentId"] = "Gateway payment ID is required!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}
