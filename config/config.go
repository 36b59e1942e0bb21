package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBDialect string
	DBName    string
	JWTKey    string
	SaltRound int

	SendgridApiKey string
	EmailSender    string
	EmailFromName  string

	GatewayVerifyURL string // payment gateway verification endpoint
	GatewayApiKey    string
	GatewaySecretKey string

	PendingEnrollmentTTLDays int // pending enrollments older than this get expired
	ReminderIdleDays         int // days without access before a study reminder goes out
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBDialect: getEnv("DB_DIALECT", "postgres"),
		DBName:    getEnv("DB_NAME", "kavyalearn"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@kavyalearn.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "KavyaLearn"),

		GatewayVerifyURL: getEnv("GATEWAY_VERIFY_URL", ""),
		GatewayApiKey:    getEnv("GATEWAY_API_KEY", ""),
		GatewaySecretKey: getEnv("GATEWAY_SECRET_KEY", ""),

		PendingEnrollmentTTLDays: getEnvInt("PENDING_ENROLLMENT_TTL_DAYS", 30),
		ReminderIdleDays:         getEnvInt("REMINDER_IDLE_DAYS", 7),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridApiKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will be logged, not sent.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
