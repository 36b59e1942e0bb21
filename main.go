package main

import (
	"kavyalearn/config"
	"kavyalearn/database"
	adminRoutes "kavyalearn/routers/adminRoutes"
	authRoutes "kavyalearn/routers/authRoutes"
	courseRoutes "kavyalearn/routers/courseRoutes"
	enrollmentRoutes "kavyalearn/routers/enrollmentRoutes"
	messageRoutes "kavyalearn/routers/messageRoutes"
	notificationRoutes "kavyalearn/routers/notificationRoutes"
	parentRoutes "kavyalearn/routers/parentRoutes"
	paymentRoutes "kavyalearn/routers/paymentRoutes"
	"kavyalearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	messageRoutes.SetupMessageRoutes(app)
	parentRoutes.SetupParentRoutes(app)

	utils.InitializeReminderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
