package infra

import (
	"fmt"
	"net/mail"
	"net/smtp"
	"path/filepath"

	"github.com/SoyuzCL/pos-panchita/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipts over SMTP.
type Mailer struct {
	relay  string
	host   string
	sender mail.Address
	auth   smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{
		relay:  fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		host:   cfg.SMTPHost,
		sender: mail.Address{Name: cfg.StoreName, Address: cfg.SMTPUser},
	}
	// Anonymous relays (local MTA, mailpit) take no credentials.
	if cfg.SMTPUser != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return m
}

func (m *Mailer) Configured() bool { return m.host != "" }

func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	msg, err := m.compose(to, subject, body, pdfPath)
	if err != nil {
		return err
	}
	return msg.Send(m.relay, m.auth)
}

// compose builds the message without touching the network.
func (m *Mailer) compose(to, subject, body, pdfPath string) (*email.Email, error) {
	if _, err := mail.ParseAddress(to); err != nil {
		return nil, fmt.Errorf("mailer: recipient %q: %w", to, err)
	}
	msg := email.NewEmail()
	msg.From = m.sender.String()
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)
	if pdfPath == "" {
		return msg, nil
	}
	a, err := msg.AttachFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("mailer: attach %s: %w", filepath.Base(pdfPath), err)
	}
	a.ContentType = "application/pdf"
	return msg, nil
}
