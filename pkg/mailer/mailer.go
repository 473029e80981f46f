package mailer

import (
	"github.com/khadamati/khadamati-backend/config"
	"github.com/khadamati/khadamati-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional emails over SMTP.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates a mailer backed by the configured SMTP server.
func NewMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return err
	}

	logger.Debug("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

// NoopMailer discards all emails. Used in tests and when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, htmlBody string) error { return nil }
