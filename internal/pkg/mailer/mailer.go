package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/config"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

type smtpDispatcher struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewDispatcher creates an SMTP-backed notify.Dispatcher.
func NewDispatcher(cfg config.SMTPConfig) (notify.Dispatcher, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	return &smtpDispatcher{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type detailRow struct {
	Label string
	Value string
}

type anomalyEmailData struct {
	Headline     string
	Summary      string
	EmployeeName string
	Details      []detailRow
}

// Dispatch implements notify.Dispatcher.
func (d *smtpDispatcher) Dispatch(_ context.Context, req notify.Request) error {
	if req.ManagerEmail == "" {
		slog.Warn("Manager has no email address, skipping notification",
			"tenant_id", req.TenantID, "manager_id", req.ManagerID,
			"anomaly_type", req.AnomalyType)
		return nil
	}

	subject, headline, summary := wording(req)

	data := anomalyEmailData{
		Headline:     headline,
		Summary:      summary,
		EmployeeName: req.EmployeeName,
		Details:      details(req),
	}

	var body bytes.Buffer
	if err := d.templates.ExecuteTemplate(&body, "anomaly.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return d.sendHTML(req.ManagerEmail, subject, body.String())
}

// wording returns the subject line and body copy for one anomaly type.
func wording(req notify.Request) (subject, headline, summary string) {
	name := req.EmployeeName
	date := req.Payload["date"]

	switch req.AnomalyType {
	case anomaly.TypeLate:
		mins := req.Payload["late_minutes"]
		return fmt.Sprintf("Late arrival: %s", name),
			"Late arrival",
			fmt.Sprintf("%s clocked in %s minutes late on %s.", name, mins, date)
	case anomaly.TypeAbsence:
		return fmt.Sprintf("Absence: %s", name),
			"Unplanned absence",
			fmt.Sprintf("%s was scheduled to work on %s but has not clocked in.", name, date)
	case anomaly.TypeAbsencePartial:
		mins := req.Payload["open_since_minutes"]
		return fmt.Sprintf("Possible early departure: %s", name),
			"Possible early departure",
			fmt.Sprintf("%s clocked in on %s but the session has been open for %s minutes with no clock-out.", name, date, mins)
	case anomaly.TypeAbsenceTechnical:
		return fmt.Sprintf("Suspect punch data: %s", name),
			"Suspect punch data",
			fmt.Sprintf("Punch records for %s on %s look technically inconsistent and may need review.", name, date)
	case anomaly.TypeMissingIn:
		return fmt.Sprintf("Missing clock-in: %s", name),
			"Missing clock-in",
			fmt.Sprintf("%s clocked out on %s without a matching clock-in.", name, date)
	case anomaly.TypeMissingOut:
		return fmt.Sprintf("Missing clock-out: %s", name),
			"Missing clock-out",
			fmt.Sprintf("%s has not clocked out after their shift ended on %s.", name, date)
	case anomaly.TypeDoubleIn, anomaly.TypeDoubleOut:
		return fmt.Sprintf("Duplicate punch: %s", name),
			"Duplicate punch",
			fmt.Sprintf("%s recorded a duplicate punch on %s.", name, date)
	default:
		return fmt.Sprintf("Attendance anomaly: %s", name),
			"Attendance anomaly",
			fmt.Sprintf("An attendance anomaly was detected for %s on %s.", name, date)
	}
}

func details(req notify.Request) []detailRow {
	rows := []detailRow{
		{Label: "Date", Value: req.Payload["date"]},
		{Label: "Type", Value: string(req.AnomalyType)},
	}
	if v := req.Payload["employee_matricule"]; v != "" {
		rows = append(rows, detailRow{Label: "Matricule", Value: v})
	}
	if v := req.Payload["late_minutes"]; v != "" {
		rows = append(rows, detailRow{Label: "Minutes late", Value: v})
	}
	if v := req.Payload["open_since_minutes"]; v != "" {
		rows = append(rows, detailRow{Label: "Session open for (min)", Value: v})
	}
	if v := req.Payload["note"]; v != "" {
		rows = append(rows, detailRow{Label: "Note", Value: v})
	}
	return rows
}

func (d *smtpDispatcher) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if d.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := d.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", d.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)

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

		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
