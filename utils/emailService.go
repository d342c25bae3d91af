package utils

import (
	"fmt"
	"log"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends a single HTML email through SendGrid. A missing API key
// logs and returns nil so local setups work without outgoing mail.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	cfg := config.AppConfig
	if cfg.SendGridKey == "" {
		log.Printf("Email disabled, skipping send to %s (%s)", toEmail, subject)
		return nil
	}

	from := mail.NewEmail(cfg.EmailName, cfg.EmailFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(cfg.SendGridKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", toEmail, response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid: status %d", response.StatusCode)
	}
	return nil
}

// SendAccessDecisionEmail notifies a student that their access request was
// approved or declined.
func SendAccessDecisionEmail(studentName, studentEmail, courseTitle string, approved bool) error {
	subject := fmt.Sprintf("Access declined: %s", courseTitle)
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your access request for <b>%s</b> was declined.
		You can submit a new request from the course page.</p>`, studentName, courseTitle)
	if approved {
		subject = fmt.Sprintf("Access granted: %s", courseTitle)
		body = fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>Your access request for <b>%s</b> has been approved.
		The course is now unlocked in your account.</p>`, studentName, courseTitle)
	}
	return SendEmail(studentName, studentEmail, subject, emailTemplate(subject, body))
}

// SendPendingReminderEmail nudges an instructor about access requests that
// have been waiting longer than the configured review window.
func SendPendingReminderEmail(instructorName, instructorEmail string, pendingCount int) error {
	subject := fmt.Sprintf("%d access request(s) awaiting review", pendingCount)
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>You have <b>%d</b> pending course access request(s) older than %d hour(s).
		Please review them from your dashboard.</p>`,
		instructorName, pendingCount, config.AppConfig.ReminderAfterHours)
	return SendEmail(instructorName, instructorEmail, subject, emailTemplate(subject, body))
}

func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1D4ED8; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 32px 24px; color: #111827; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 16px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">This is an automated message, please do not reply.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
