package utils

import (
	"fmt"
	"log"

	"kavyalearn/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through Sendgrid. When no API key is
// configured the mail is logged instead so local runs don't need a key.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendgridApiKey == "" {
		log.Printf("[EMAIL] (not sent, no API key) To: %s Subject: %s", toEmail, subject)
		return nil
	}

	from := mail.NewEmail(config.AppConfig.EmailFromName, config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", getEmailTemplate(subject, htmlBody))

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("[EMAIL] Sendgrid returned %d for %s: %s", response.StatusCode, toEmail, response.Body)
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	return nil
}

// getEmailTemplate wraps body content in the KavyaLearn mail layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #FF8F00; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #FF8F00; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>KAVYALEARN</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 KavyaLearn. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a newly registered user
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to KavyaLearn! Browse the course catalog and start learning today.</p>
	`, name)
	if err := SendEmail(email, name, "Welcome to KavyaLearn", body); err != nil {
		log.Printf("[EMAIL] Failed to send welcome email to %s: %v", email, err)
	}
}

// SendOTPEmail sends the email verification code
func SendOTPEmail(email, name, otp string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your verification code is:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>The code is valid for 10 minutes.</p>
	`, name, otp)
	if err := SendEmail(email, name, "Verify your email", body); err != nil {
		log.Printf("[EMAIL] Failed to send OTP email to %s: %v", email, err)
	}
}

// SendEnrollmentConfirmationEmail confirms a paid enrollment activation
func SendEnrollmentConfirmationEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment was received and your enrollment in <strong>%s</strong> is now active.</p>
		<p>Head to your dashboard to start the first lesson.</p>
	`, name, courseTitle)
	if err := SendEmail(email, name, "Enrollment activated", body); err != nil {
		log.Printf("[EMAIL] Failed to send enrollment confirmation to %s: %v", email, err)
	}
}

// SendFreeGrantEmail notifies a student of an admin-granted free enrollment
func SendFreeGrantEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have been given free access to <strong>%s</strong>.</p>
		<p>The course is waiting for you on your dashboard.</p>
	`, name, courseTitle)
	if err := SendEmail(email, name, "Course access granted", body); err != nil {
		log.Printf("[EMAIL] Failed to send free grant email to %s: %v", email, err)
	}
}

// SendStudyReminderEmail nudges a student who hasn't opened a course lately
func SendStudyReminderEmail(email, name, courseTitle string, idleDays int) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>It has been %d days since you last opened <strong>%s</strong>. Keep your streak going!</p>
	`, name, idleDays, courseTitle)
	if err := SendEmail(email, name, "Continue your course", body); err != nil {
		log.Printf("[EMAIL] Failed to send study reminder to %s: %v", email, err)
	}
}
