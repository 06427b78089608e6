// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/models"
)

// NotificationService sends transactional email. Every send is best-effort:
// callers log failures and carry on, the application record is authoritative
// regardless of whether a notification went out.
type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config: config,
	}
}

// SendApplicationConfirmation emails the applicant their reference number.
func (s *NotificationService) SendApplicationConfirmation(app *models.Application) error {
	tmpl := s.getEmailTemplate("application_confirmation")

	data := map[string]interface{}{
		"FullName":        app.FullName,
		"ReferenceNumber": app.ReferenceNumber,
		"VisaType":        app.VisaType,
		"TravelDate":      app.TravelDate,
		"FeeAmount":       app.FeeAmount.StringFixed(2),
		"FeeCurrency":     app.FeeCurrency,
		"StatusURL":       fmt.Sprintf("%s/application-status?ref=%s", s.config.Frontend.BaseURL, app.ReferenceNumber),
	}

	subject := "E-Visa Application Received - " + app.ReferenceNumber
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(app.Email, subject, body)
}

// SendStaffAlert notifies the fixed staff distribution address of a new
// submission.
func (s *NotificationService) SendStaffAlert(app *models.Application) error {
	tmpl := s.getEmailTemplate("staff_alert")

	data := map[string]interface{}{
		"ReferenceNumber": app.ReferenceNumber,
		"FullName":        app.FullName,
		"Nationality":     app.Nationality,
		"VisaType":        app.VisaType,
		"TravelDate":      app.TravelDate,
		"DocumentCount":   len(app.DocumentPaths),
		"ReviewURL":       fmt.Sprintf("%s/admin/evisa?ref=%s", s.config.Frontend.BaseURL, app.ReferenceNumber),
	}

	subject := "New E-Visa Application - " + app.ReferenceNumber
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(s.config.Admin.StaffEmail, subject, body)
}

// SendStaleApplicationsDigest mails staff a list of submitted applications
// that have waited past the reminder threshold.
func (s *NotificationService) SendStaleApplicationsDigest(apps []models.Application, staleAfterDays int) error {
	if len(apps) == 0 {
		return nil
	}

	tmpl := s.getEmailTemplate("stale_digest")

	entries := make([]map[string]interface{}, 0, len(apps))
	for _, app := range apps {
		entries = append(entries, map[string]interface{}{
			"ReferenceNumber": app.ReferenceNumber,
			"FullName":        app.FullName,
			"SubmittedAt":     app.CreatedAt.Format("2006-01-02"),
		})
	}

	data := map[string]interface{}{
		"Count":        len(apps),
		"Days":         staleAfterDays,
		"Applications": entries,
		"ReviewURL":    fmt.Sprintf("%s/admin/evisa", s.config.Frontend.BaseURL),
	}

	subject := fmt.Sprintf("%d e-visa applications awaiting review", len(apps))
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(s.config.Admin.StaffEmail, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email not configured; skipping send")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s <%s>\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		to, s.config.Email.FromName, s.config.Email.FromEmail, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"application_confirmation": {
			Subject: "E-Visa Application Received",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Application Received</h2>
	<p>Dear {{.FullName}},</p>
	<p>Your e-visa application has been received and your payment confirmed.</p>
	<p><strong>Reference Number: {{.ReferenceNumber}}</strong></p>
	<ul>
		<li>Visa type: {{.VisaType}}</li>
		<li>Travel date: {{.TravelDate}}</li>
		<li>Fee: {{.FeeCurrency}} {{.FeeAmount}}</li>
	</ul>
	<p>Keep this reference number safe; you will need it to check your application status.</p>
	<a href="{{.StatusURL}}">Check application status</a>
	<p>Immigration E-Visa Portal</p>
</body>
</html>`,
		},
		"staff_alert": {
			Subject: "New E-Visa Application",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Application Submitted</h2>
	<ul>
		<li>Reference: {{.ReferenceNumber}}</li>
		<li>Applicant: {{.FullName}} ({{.Nationality}})</li>
		<li>Visa type: {{.VisaType}}</li>
		<li>Travel date: {{.TravelDate}}</li>
		<li>Documents attached: {{.DocumentCount}}</li>
	</ul>
	<a href="{{.ReviewURL}}">Open review dashboard</a>
</body>
</html>`,
		},
		"stale_digest": {
			Subject: "Applications awaiting review",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Count}} applications have waited more than {{.Days}} days</h2>
	<ul>
	{{range .Applications}}
		<li>{{.ReferenceNumber}} - {{.FullName}} (submitted {{.SubmittedAt}})</li>
	{{end}}
	</ul>
	<a href="{{.ReviewURL}}">Open review dashboard</a>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
