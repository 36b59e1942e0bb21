package messageController

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"kavyalearn/database"
	"kavyalearn/middleware"
	"kavyalearn/models"

	"github.com/gofiber/fiber/v2"
)

type threadMessage struct {
	Sender string `json:"sender"` // student or staff
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// CreateThread opens a new message thread from a student to staff
func CreateThread(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData := new(struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if strings.TrimSpace(reqData.Subject) == "" || strings.TrimSpace(reqData.Message) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Subject and message are required!", nil)
	}

	msgJSON, err := json.Marshal([]threadMessage{{
		Sender: "student",
		Text:   reqData.Message,
		Time:   time.Now().UTC().Format(time.RFC3339),
	}})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to format message!", nil)
	}

	thread := models.SupportThread{
		UserID:   userID,
		Subject:  reqData.Subject,
		Messages: msgJSON,
		Status:   "OPEN",
	}

	if err := database.Database.Db.Create(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thread created successfully!", thread)
}

// ListThreads returns the caller's threads; staff see every open thread
func ListThreads(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db.Model(&models.SupportThread{}).Where("is_deleted = ?", false)

	switch user.Role {
	case "ADMIN", "SUB-ADMIN", "INSTRUCTOR":
		if status := c.Query("status"); status != "" {
			db = db.Where("status = ?", status)
		}
	default:
		db = db.Where("user_id = ?", userID)
	}

	var threads []models.SupportThread
	if err := db.Order("updated_at desc").Find(&threads).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch threads!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Threads fetched!", fiber.Map{
		"threads": threads,
	})
}

// ReplyToThread appends a message to a thread. Staff replies flip the status
// to ANSWERED and notify the student.
func ReplyToThread(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	threadID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || threadID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid thread ID!", nil)
	}

	reqData := new(struct {
		Message string `json:"message"`
	})

	if err := c.BodyParser(reqData); err != nil || strings.TrimSpace(reqData.Message) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message is required!", nil)
	}

	var thread models.SupportThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	isStaff := user.Role == "ADMIN" || user.Role == "SUB-ADMIN" || user.Role == "INSTRUCTOR"
	if !isStaff && thread.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if thread.Status == "CLOSED" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thread is closed!", nil)
	}

	var messages []threadMessage
	if len(thread.Messages) > 0 {
		if err := json.Unmarshal(thread.Messages, &messages); err != nil {
			messages = nil
		}
	}

	sender := "student"
	if isStaff {
		sender = "staff"
	}

	messages = append(messages, threadMessage{
		Sender: sender,
		Text:   reqData.Message,
		Time:   time.Now().UTC().Format(time.RFC3339),
	})

	msgJSON, err := json.Marshal(messages)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to format message!", nil)
	}

	thread.Messages = msgJSON
	if isStaff {
		thread.Status = "ANSWERED"
	}

	if err := database.Database.Db.Save(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save reply!", nil)
	}

	if isStaff {
		notification := models.Notification{
			UserID:        thread.UserID,
			Type:          "MESSAGE",
			Title:         "New reply: " + thread.Subject,
			Body:          reqData.Message,
			ReferenceType: "thread",
			ReferenceID:   thread.ID,
		}
		if err := database.Database.Db.Create(&notification).Error; err != nil {
			log.Printf("[MESSAGE] Failed to create reply notification: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply added!", thread)
}

// CloseThread closes a thread (owner or staff)
func CloseThread(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	threadID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || threadID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid thread ID!", nil)
	}

	var thread models.SupportThread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	isStaff := user.Role == "ADMIN" || user.Role == "SUB-ADMIN" || user.Role == "INSTRUCTOR"
	if !isStaff && thread.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	thread.Status = "CLOSED"
	if err := database.Database.Db.Save(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread closed!", thread)
}
