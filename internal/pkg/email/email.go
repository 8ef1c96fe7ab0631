package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/schoolworks/staff-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, status string, reviewNote *string) error
	SendSecurityAlert(to, employeeName, date, riskLevel, detail string) error
	SendPayslipReady(to, employeeName, period string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type leaveDecisionEmailData struct {
	EmployeeName  string
	LeaveTypeName string
	StartDate     string
	EndDate       string
	Status        string
	ReviewNote    string
}

// SendLeaveDecision notifies an employee that their leave request was
// approved or rejected.
func (s *emailServiceImpl) SendLeaveDecision(to, employeeName, leaveTypeName, startDate, endDate, status string, reviewNote *string) error {
	data := leaveDecisionEmailData{
		EmployeeName:  employeeName,
		LeaveTypeName: leaveTypeName,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        status,
	}
	if reviewNote != nil {
		data.ReviewNote = *reviewNote
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Leave Request %s", status), body.String())
}

type securityAlertEmailData struct {
	EmployeeName string
	Date         string
	RiskLevel    string
	Detail       string
}

// SendSecurityAlert notifies an administrator about a high risk check-in.
func (s *emailServiceImpl) SendSecurityAlert(to, employeeName, date, riskLevel, detail string) error {
	data := securityAlertEmailData{
		EmployeeName: employeeName,
		Date:         date,
		RiskLevel:    riskLevel,
		Detail:       detail,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "security_alert.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Attendance Security Alert", body.String())
}

type payslipReadyEmailData struct {
	EmployeeName string
	Period       string
}

// SendPayslipReady notifies an employee that their payslip is available.
func (s *emailServiceImpl) SendPayslipReady(to, employeeName, period string) error {
	data := payslipReadyEmailData{
		EmployeeName: employeeName,
		Period:       period,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "payslip_ready.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Payslip for %s", period), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
