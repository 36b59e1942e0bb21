package paymentController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kavyalearn/config"
	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"
	courseModels "kavyalearn/models/course"
	validators "kavyalearn/validators/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *fiber.App {
	config.AppConfig = &config.Config{
		Port:      "3000",
		DBDialect: "sqlite",
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()

	paymentGroup := app.Group("/payment")
	paymentGroup.Post("/record", middleware.JWTMiddleware, validators.RecordPayment(), RecordPayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, GetPaymentHistory)

	return app
}

func createTestUser(t *testing.T, email string) (models.User, string) {
	user := models.User{Name: "Asha", Email: email, Role: "STUDENT", IsEmailVerified: true}
	if err := database.Database.Db.Create(&user).Error; err != nil {
		t.Fatalf("createTestUser() failed: %v", err)
	}
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		t.Fatalf("createTestUser() token failed: %v", err)
	}
	return user, token
}

func createTestCourse(t *testing.T) courseModels.Course {
	course := courseModels.Course{
		Title:       "Algebra Basics",
		Description: "A test course",
		Category:    "Mathematics",
		Price:       499,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		t.Fatalf("createTestCourse() failed: %v", err)
	}
	return course
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("doRequest() encode failed: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("doRequest() failed: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("doRequest() read body failed: %v", err)
	}

	var parsed map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("doRequest() unmarshal failed: %v (%s)", err, raw)
		}
	}
	return resp, parsed
}

func TestRecordPayment(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "asha@example.com")
	course := createTestCourse(t)

	payload := fiber.Map{
		"courseId":         course.ID,
		"amount":           499,
		"status":           "completed",
		"paymentGateway":   "razorpay",
		"gatewayPaymentId": "pay_abc123",
		"paymentMethod":    "UPI",
	}

	resp, _ := doRequest(t, app, http.MethodPost, "/payment/record", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payment models.Payment
	require.NoError(t, database.Database.Db.Where("gateway_payment_id = ?", "pay_abc123").First(&payment).Error)
	assert.Equal(t, user.ID, payment.UserID)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.NotEmpty(t, payment.TransactionRef)
	assert.NotNil(t, payment.PaidAt)
}

func TestRecordPaymentDuplicateGatewayID(t *testing.T) {
	app := setupTest(t)
	_, token := createTestUser(t, "asha@example.com")
	course := createTestCourse(t)

	payload := fiber.Map{
		"courseId":         course.ID,
		"amount":           499,
		"status":           "completed",
		"paymentGateway":   "razorpay",
		"gatewayPaymentId": "pay_abc123",
	}

	resp, _ := doRequest(t, app, http.MethodPost, "/payment/record", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doRequest(t, app, http.MethodPost, "/payment/record", token, payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	data, _ := body["data"].(map[string]interface{})
	assert.NotNil(t, data["paymentId"])
	assert.Equal(t, "completed", data["status"])

	var count int64
	database.Database.Db.Model(&models.Payment{}).Where("gateway_payment_id = ?", "pay_abc123").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordPaymentValidation(t *testing.T) {
	app := setupTest(t)
	_, token := createTestUser(t, "asha@example.com")
	course := createTestCourse(t)

	// Unknown status value
	resp, _ := doRequest(t, app, http.MethodPost, "/payment/record", token, fiber.Map{
		"courseId":         course.ID,
		"amount":           499,
		"status":           "refunded",
		"paymentGateway":   "razorpay",
		"gatewayPaymentId": "pay_x",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown course
	resp, _ = doRequest(t, app, http.MethodPost, "/payment/record", token, fiber.Map{
		"courseId":         999,
		"amount":           499,
		"status":           "completed",
		"paymentGateway":   "razorpay",
		"gatewayPaymentId": "pay_y",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetPaymentHistory(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "asha@example.com")
	other, _ := createTestUser(t, "ravi@example.com")
	course := createTestCourse(t)

	for i, owner := range []models.User{user, user, other} {
		payment := models.Payment{
			UserID:           owner.ID,
			CourseID:         course.ID,
			Amount:           499,
			Status:           models.PaymentStatusCompleted,
			TransactionRef:   fmt.Sprintf("TXN-%d", i),
			GatewayPaymentID: fmt.Sprintf("pay_%d", i),
		}
		require.NoError(t, database.Database.Db.Create(&payment).Error)
	}

	resp, body := doRequest(t, app, http.MethodGet, "/payment/history", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, _ := body["data"].(map[string]interface{})
	payments, ok := data["payments"].([]interface{})
	require.True(t, ok)
	assert.Len(t, payments, 2)
}
