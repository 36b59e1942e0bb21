package authController

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
	validators "kavyalearn/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", validators.Signup(), Signup)
	authGroup.Post("/login", Login)
	authGroup.Post("/verify/email", VerifyEmail)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("doRequest() encode failed: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")

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

func TestSignup(t *testing.T) {
	app := setupTest(t)

	payload := fiber.Map{
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"password": "s3cret-pass",
	}

	resp, _ := doRequest(t, app, http.MethodPost, "/auth/signup", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "asha@example.com").First(&user).Error)
	assert.Equal(t, "STUDENT", user.Role)
	assert.False(t, user.IsEmailVerified)

	// Seeded OTP for verification
	var otpCount int64
	database.Database.Db.Model(&models.OTP{}).Where("user_id = ?", user.ID).Count(&otpCount)
	assert.Equal(t, int64(1), otpCount)

	// Default permissions
	var permCount int64
	database.Database.Db.Model(&models.Permission{}).Where("user_id = ?", user.ID).Count(&permCount)
	assert.Greater(t, permCount, int64(0))

	// Duplicate email is rejected
	resp, _ = doRequest(t, app, http.MethodPost, "/auth/signup", payload)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	app := setupTest(t)

	resp, _ := doRequest(t, app, http.MethodPost, "/auth/signup", fiber.Map{
		"name":     "A",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app := setupTest(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), 4)
	require.NoError(t, err)
	user := models.User{
		Name:            "Asha",
		Email:           "asha@example.com",
		Password:        string(hashed),
		Role:            "STUDENT",
		IsEmailVerified: true,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, _ := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// The issued token passes the middleware
	protected := fiber.New()
	protected.Get("/me", middleware.JWTMiddleware, func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := protected.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)

	// Wrong password
	resp, _ = doRequest(t, app, http.MethodPost, "/auth/login", fiber.Map{
		"email":    "asha@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Unknown user
	resp, _ = doRequest(t, app, http.MethodPost, "/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
