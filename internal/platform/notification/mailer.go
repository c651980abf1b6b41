package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thyrotrack/thyrotrack/internal/platform/telemetry"
)

// Mailer renders a template and sends the result.
type Mailer struct {
	templates *TemplateEngine
	sender    EmailSender
	metrics   *telemetry.Collector
	logger    zerolog.Logger
}

// NewMailer wires a sender to the built-in templates. metrics may be nil.
func NewMailer(sender EmailSender, metrics *telemetry.Collector, logger zerolog.Logger) *Mailer {
	return &Mailer{
		templates: NewTemplateEngine(),
		sender:    sender,
		metrics:   metrics,
		logger:    logger,
	}
}

// SendTemplate renders templateID with data and mails it to `to`.
func (m *Mailer) SendTemplate(ctx context.Context, templateID, to string, data map[string]string, attachments ...Attachment) error {
	subject, body, err := m.templates.Render(templateID, data)
	if err != nil {
		return err
	}

	err = m.sender.Send(ctx, Message{
		To:          to,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
	})
	m.metrics.EmailSent(templateID, err)
	if err != nil {
		m.logger.Error().Err(err).Str("template", templateID).Msg("email delivery failed")
		return fmt.Errorf("send %s: %w", templateID, err)
	}

	m.logger.Info().Str("template", templateID).Int("attachments", len(attachments)).Msg("email sent")
	return nil
}
