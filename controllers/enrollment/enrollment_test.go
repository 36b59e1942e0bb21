package enrollmentController

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
	validators "kavyalearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *fiber.App {
	config.AppConfig = &config.Config{
		Port:          "3000",
		DBDialect:     "sqlite",
		JWTKey:        "test-secret",
		SaltRound:     4,
		EmailSender:   "no-reply@kavyalearn.test",
		EmailFromName: "KavyaLearn",
	}

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("setupTest() failed: %v", err)
	}
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()

	enrollGroup := app.Group("/enrollment")
	enrollGroup.Post("/create", middleware.JWTMiddleware, validators.CreateEnrollment(), CreatePendingEnrollment)
	enrollGroup.Post("/activate/:enrollmentId", middleware.JWTMiddleware, validators.ActivateEnrollment(), ActivateEnrollment)
	enrollGroup.Get("/course/:courseId", middleware.JWTMiddleware, validators.CourseParam(), GetEnrollmentStatus)
	enrollGroup.Put("/:enrollmentId", middleware.JWTMiddleware, validators.UpdateEnrollment(), UpdateEnrollment)
	enrollGroup.Post("/unenroll-all", middleware.JWTMiddleware, UnenrollAll)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/enrollment", middleware.JWTMiddleware, middleware.RequireRoles("ADMIN", "SUB-ADMIN"), validators.FreeEnrollment(), CreateFreeEnrollment)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, GetUserEnrollmentsList)

	return app
}

func createTestUser(t *testing.T, name, email, role string) (models.User, string) {
	user := models.User{
		Name:            name,
		Email:           email,
		Role:            role,
		IsEmailVerified: true,
	}
	if err := database.Database.Db.Create(&user).Error; err != nil {
		t.Fatalf("createTestUser() failed: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		t.Fatalf("createTestUser() token failed: %v", err)
	}
	return user, token
}

func createTestCourse(t *testing.T, title string) courseModels.Course {
	course := courseModels.Course{
		Title:       title,
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

func createTestPayment(t *testing.T, userID, courseID uint, status models.PaymentStatus) models.Payment {
	payment := models.Payment{
		UserID:           userID,
		CourseID:         courseID,
		Amount:           499,
		Status:           status,
		TransactionRef:   "TXN-" + uuid.NewString(),
		PaymentGateway:   "razorpay",
		GatewayPaymentID: "pay_" + uuid.NewString(),
	}
	if err := database.Database.Db.Create(&payment).Error; err != nil {
		t.Fatalf("createTestPayment() failed: %v", err)
	}
	return payment
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

func responseData(body map[string]interface{}) map[string]interface{} {
	data, _ := body["data"].(map[string]interface{})
	return data
}

func TestCreatePendingEnrollment(t *testing.T) {
	app := setupTest(t)
	_, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")

	resp, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := responseData(body)
	require.NotNil(t, data["enrollmentId"])

	var enrollment courseModels.Enrollment
	err := database.Database.Db.Where("course_id = ?", course.ID).First(&enrollment).Error
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentStatusPending, enrollment.EnrollmentStatus)
	assert.False(t, enrollment.IsFree)
	assert.Nil(t, enrollment.PaymentID)
	assert.True(t, enrollment.IsLocked())
}

func TestCreatePendingEnrollmentCourseNotFound(t *testing.T) {
	app := setupTest(t)
	_, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")

	resp, _ := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": 999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreatePendingEnrollmentDuplicate(t *testing.T) {
	app := setupTest(t)
	_, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")

	resp, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	firstID := responseData(body)["enrollmentId"]

	resp, body = doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	data := responseData(body)
	assert.Equal(t, firstID, data["enrollmentId"])
	assert.Equal(t, string(courseModels.EnrollmentStatusPending), data["enrollmentStatus"])

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestActivateEnrollment(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")

	_, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	enrollmentID := responseData(body)["enrollmentId"]

	payment := createTestPayment(t, user.ID, course.ID, models.PaymentStatusCompleted)

	resp, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/enrollment/activate/%v", enrollmentID), token, fiber.Map{"paymentId": payment.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentStatusActive, enrollment.EnrollmentStatus)
	assert.Equal(t, courseModels.PurchaseStatusPaid, enrollment.PurchaseStatus)
	require.NotNil(t, enrollment.PaymentID)
	assert.Equal(t, payment.ID, *enrollment.PaymentID)
	assert.False(t, enrollment.IsLocked())

	var studentCount int64
	database.Database.Db.Model(&courseModels.CourseStudent{}).Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&studentCount)
	assert.Equal(t, int64(1), studentCount)

	var dashCount int64
	database.Database.Db.Model(&models.UserCourse{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&dashCount)
	assert.Equal(t, int64(1), dashCount)
}

func TestActivateEnrollmentIdempotent(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")

	_, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	enrollmentID := responseData(body)["enrollmentId"]
	payment := createTestPayment(t, user.ID, course.ID, models.PaymentStatusCompleted)

	path := fmt.Sprintf("/enrollment/activate/%v", enrollmentID)
	resp, _ := doRequest(t, app, http.MethodPost, path, token, fiber.Map{"paymentId": payment.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodPost, path, token, fiber.Map{"paymentId": payment.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var studentCount, dashCount int64
	database.Database.Db.Model(&courseModels.CourseStudent{}).Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&studentCount)
	database.Database.Db.Model(&models.UserCourse{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&dashCount)
	assert.Equal(t, int64(1), studentCount)
	assert.Equal(t, int64(1), dashCount)
}

func TestActivateEnrollmentPreconditions(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	other, otherToken := createTestUser(t, "Ravi", "ravi@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")
	otherCourse := createTestCourse(t, "Geometry Basics")

	_, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	enrollmentID := responseData(body)["enrollmentId"]
	path := fmt.Sprintf("/enrollment/activate/%v", enrollmentID)

	// Unknown enrollment
	resp, _ := doRequest(t, app, http.MethodPost, "/enrollment/activate/999", token, fiber.Map{"paymentId": 1})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Someone else's enrollment
	resp, _ = doRequest(t, app, http.MethodPost, path, otherToken, fiber.Map{"paymentId": 1})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Unknown payment
	resp, _ = doRequest(t, app, http.MethodPost, path, token, fiber.Map{"paymentId": 999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Payment not completed
	pending := createTestPayment(t, user.ID, course.ID, models.PaymentStatusPending)
	resp, _ = doRequest(t, app, http.MethodPost, path, token, fiber.Map{"paymentId": pending.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Someone else's payment
	theirs := createTestPayment(t, other.ID, course.ID, models.PaymentStatusCompleted)
	resp, _ = doRequest(t, app, http.MethodPost, path, token, fiber.Map{"paymentId": theirs.ID})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Payment for another course
	wrongCourse := createTestPayment(t, user.ID, otherCourse.ID, models.PaymentStatusCompleted)
	resp, _ = doRequest(t, app, http.MethodPost, path, token, fiber.Map{"paymentId": wrongCourse.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Every failed attempt leaves the enrollment pending and locked
	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentStatusPending, enrollment.EnrollmentStatus)
	assert.Nil(t, enrollment.PaymentID)
	assert.True(t, enrollment.IsLocked())

	var studentCount int64
	database.Database.Db.Model(&courseModels.CourseStudent{}).Where("user_id = ?", user.ID).Count(&studentCount)
	assert.Equal(t, int64(0), studentCount)
}

func TestGetEnrollmentStatus(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")

	// No enrollment at all
	resp, body := doRequest(t, app, http.MethodGet, fmt.Sprintf("/enrollment/course/%d", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := responseData(body)
	assert.Equal(t, false, data["enrolled"])
	assert.Equal(t, true, data["isLocked"])

	// Pending enrollment stays locked
	_, _ = doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	resp, body = doRequest(t, app, http.MethodGet, fmt.Sprintf("/enrollment/course/%d", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = responseData(body)
	assert.Equal(t, false, data["enrolled"])
	assert.Equal(t, true, data["isLocked"])
	assert.Equal(t, string(courseModels.EnrollmentStatusPending), data["status"])

	// Activation unlocks
	payment := createTestPayment(t, user.ID, course.ID, models.PaymentStatusCompleted)
	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	resp, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/enrollment/activate/%d", enrollment.ID), token, fiber.Map{"paymentId": payment.ID})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, app, http.MethodGet, fmt.Sprintf("/enrollment/course/%d", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = responseData(body)
	assert.Equal(t, true, data["enrolled"])
	assert.Equal(t, false, data["isLocked"])
}

func TestUpdateEnrollment(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	_, otherToken := createTestUser(t, "Ravi", "ravi@example.com", "STUDENT")
	course := createTestCourse(t, "Algebra Basics")

	_, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
	enrollmentID := responseData(body)["enrollmentId"]
	path := fmt.Sprintf("/enrollment/%v", enrollmentID)

	// Only the owner may update
	resp, _ := doRequest(t, app, http.MethodPut, path, otherToken, fiber.Map{"progressPercentage": 50})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPut, path, token, fiber.Map{"progressPercentage": 42.5, "watchHours": 3.5})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 42.5, enrollment.ProgressPercentage)
	assert.Equal(t, 3.5, enrollment.WatchHours)
	assert.NotNil(t, enrollment.LastAccessed)

	// Out of range progress is rejected
	resp, _ = doRequest(t, app, http.MethodPut, path, token, fiber.Map{"progressPercentage": 120})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	// Completed flips the status as well
	resp, _ = doRequest(t, app, http.MethodPut, path, token, fiber.Map{"completed": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, database.Database.Db.Where("id = ?", enrollment.ID).First(&enrollment).Error)
	assert.True(t, enrollment.Completed)
	assert.Equal(t, courseModels.EnrollmentStatusCompleted, enrollment.EnrollmentStatus)
}

func TestUnenrollAll(t *testing.T) {
	app := setupTest(t)
	user, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	first := createTestCourse(t, "Algebra Basics")
	second := createTestCourse(t, "Geometry Basics")

	for _, course := range []courseModels.Course{first, second} {
		_, body := doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": course.ID})
		payment := createTestPayment(t, user.ID, course.ID, models.PaymentStatusCompleted)
		resp, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/enrollment/activate/%v", responseData(body)["enrollmentId"]), token, fiber.Map{"paymentId": payment.ID})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, body := doRequest(t, app, http.MethodPost, "/enrollment/unenroll-all", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := responseData(body)
	assert.Equal(t, float64(2), data["removed"])
	assert.Equal(t, float64(0), data["failed"])

	var enrollCount, studentCount, dashCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ?", user.ID).Count(&enrollCount)
	database.Database.Db.Model(&courseModels.CourseStudent{}).Where("user_id = ?", user.ID).Count(&studentCount)
	database.Database.Db.Model(&models.UserCourse{}).Where("user_id = ?", user.ID).Count(&dashCount)
	assert.Equal(t, int64(0), enrollCount)
	assert.Equal(t, int64(0), studentCount)
	assert.Equal(t, int64(0), dashCount)
}

func TestCreateFreeEnrollment(t *testing.T) {
	app := setupTest(t)
	student, studentToken := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	_, adminToken := createTestUser(t, "Admin", "admin@example.com", "ADMIN")
	course := createTestCourse(t, "Algebra Basics")

	// Students cannot grant free access
	resp, _ := doRequest(t, app, http.MethodPost, "/admin/enrollment", studentToken, fiber.Map{"studentId": student.ID, "courseId": course.ID})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/admin/enrollment", adminToken, fiber.Map{"studentId": student.ID, "courseId": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentStatusActive, enrollment.EnrollmentStatus)
	assert.True(t, enrollment.IsFree)
	assert.Equal(t, courseModels.PurchaseStatusFree, enrollment.PurchaseStatus)
	assert.Nil(t, enrollment.PaymentID)
	assert.False(t, enrollment.IsLocked())

	var studentCount int64
	database.Database.Db.Model(&courseModels.CourseStudent{}).Where("course_id = ? AND user_id = ?", course.ID, student.ID).Count(&studentCount)
	assert.Equal(t, int64(1), studentCount)

	// A second grant for the same pair is rejected
	resp, _ = doRequest(t, app, http.MethodPost, "/admin/enrollment", adminToken, fiber.Map{"studentId": student.ID, "courseId": course.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown student and course
	resp, _ = doRequest(t, app, http.MethodPost, "/admin/enrollment", adminToken, fiber.Map{"studentId": 999, "courseId": course.ID})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodPost, "/admin/enrollment", adminToken, fiber.Map{"studentId": student.ID, "courseId": 999})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetUserEnrollmentsList(t *testing.T) {
	app := setupTest(t)
	_, token := createTestUser(t, "Asha", "asha@example.com", "STUDENT")
	first := createTestCourse(t, "Algebra Basics")
	second := createTestCourse(t, "Geometry Basics")

	_, _ = doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": first.ID})
	_, _ = doRequest(t, app, http.MethodPost, "/enrollment/create", token, fiber.Map{"courseId": second.ID})

	resp, body := doRequest(t, app, http.MethodGet, "/user/enrollments", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := responseData(body)
	assert.Equal(t, float64(2), data["total"])
	enrollments, ok := data["enrollments"].([]interface{})
	require.True(t, ok)
	require.Len(t, enrollments, 2)

	// Each row carries its course fields
	titles := make(map[string]bool)
	for _, raw := range enrollments {
		row, ok := raw.(map[string]interface{})
		require.True(t, ok)
		title, _ := row["course_title"].(string)
		require.NotEmpty(t, title)
		titles[title] = true
		assert.Equal(t, float64(499), row["course_price"])
	}
	assert.True(t, titles["Algebra Basics"])
	assert.True(t, titles["Geometry Basics"])
}
