package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
	"strings"
)

// Generic Send Email. Failures are the caller's problem only if it cares;
// every trigger below fires from a goroutine and drops the error.
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Printf("Email not configured, skipping send to %v (%s)", to, subject)
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Ascend Academy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>ASCEND ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Ascend Academy. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Enrollment request received
func SendRequestReceivedEmail(email, name, courseName string) {
	subject := "We received your enrollment request"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your enrollment request for <strong>%s</strong> has been received and is awaiting review.</p>
		<p>Our team verifies every payment manually. You will get a confirmation email once your request is approved.</p>
		<div class="info-box">
			<strong>Note:</strong> Review usually takes less than 24 hours.
		</div>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Request Received", body))
}

// 2. Enrollment approved
func SendEnrollmentApprovedEmail(email, name, courseName string) {
	subject := "Enrollment Confirmed: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! Your enrollment in <strong>%s</strong> has been approved.</p>
		<p>You can now access all course content. Track your daily progress and complete the course to earn your certificate.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head to your dashboard and start Day 1.
		</div>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// 3. Enrollment request rejected
func SendRequestRejectedEmail(email, name, courseName string) {
	subject := "Update on your enrollment request"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately we could not verify the payment for your enrollment request for <strong>%s</strong>.</p>
		<p>If you believe this is a mistake, please reply to this email with your payment reference and we will take another look.</p>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Request Rejected", body))
}
