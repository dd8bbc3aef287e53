package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/config"
)

// Mailer sends plain-text mail over SMTP
type Mailer interface {
	Send(subject, body string) error
}

type smtpMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer returns nil when no SMTP host is configured; callers treat
// a nil mailer as "log only".
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &smtpMailer{cfg: cfg}
}

// Send relays one message to the configured recipient
func (m *smtpMailer) Send(subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + m.cfg.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, from, []string{m.cfg.To}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
