package worker

// Sends receipt e-mails through SMTP, behind a circuit breaker so a dead
// relay does not keep every worker busy.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SoyuzCL/pos-panchita/internal/infra"

	"github.com/rs/zerolog/log"
)

type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// MailSender is satisfied by *infra.Mailer.
type MailSender interface {
	Configured() bool
	SendReceipt(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer MailSender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer MailSender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.mailer.Configured() {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err != nil {
		return fmt.Errorf("send receipt to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: receipt sent")
	return nil
}
