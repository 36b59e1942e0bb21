package paymentController

import (
	"log"
	"time"

	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"
	"kavyalearn/utils"

	"github.com/gofiber/fiber/v2"
)

// RecordPayment stores the outcome of a payment attempt reported by the
// client. The enrollment activation flow only ever reads these records; a
// record's status never changes once it is terminal.
func RecordPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedPayment").(*struct {
		CourseID         uint    `json:"courseId" validate:"required"`
		Amount           float64 `json:"amount" validate:"required,gt=0"`
		Status           string  `json:"status" validate:"required,oneof=pending completed failed"`
		PaymentGateway   string  `json:"paymentGateway" validate:"required"`
		PaymentOrderID   string  `json:"paymentOrderId"`
		GatewayPaymentID string  `json:"gatewayPaymentId" validate:"required"`
		PaymentMethod    string  `json:"paymentMethod"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Duplicate gateway transaction
	var existing models.Payment
	if err := db.Where("gateway_payment_id = ? AND is_deleted = ?", reqData.GatewayPaymentID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already recorded!", fiber.Map{
			"paymentId": existing.ID,
			"status":    existing.Status,
		})
	}

	status := models.PaymentStatus(reqData.Status)

	// Cross-check a claimed success with the gateway before trusting it
	if status == models.PaymentStatusCompleted {
		verified, err := utils.VerifyGatewayPayment(reqData.GatewayPaymentID)
		if err != nil {
			log.Printf("[PAYMENT] Gateway verification error for %s: %v", reqData.GatewayPaymentID, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Could not verify payment with gateway!", nil)
		}
		if !verified {
			status = models.PaymentStatusFailed
		}
	}

	payment := models.Payment{
		UserID:           userID,
		CourseID:         reqData.CourseID,
		Amount:           reqData.Amount,
		Status:           status,
		TransactionRef:   utils.GenerateTransactionRef(),
		PaymentGateway:   reqData.PaymentGateway,
		PaymentOrderID:   reqData.PaymentOrderID,
		GatewayPaymentID: reqData.GatewayPaymentID,
		PaymentMethod:    reqData.PaymentMethod,
	}

	if status == models.PaymentStatusCompleted {
		now := time.Now()
		payment.PaidAt = &now
	}

	if err := db.Create(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment recorded successfully!", payment)
}

// GetPaymentHistory returns the caller's payment records
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.Payment{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminGetPayments returns all payment records (admin only)
func AdminGetPayments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.Payment{}).Where("is_deleted = ?", false)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
