package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/logctx"
)

// Mailer delivers a rendered message to one recipient. Implementations
// report success or failure per call; the dispatcher owns retry semantics.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridMailer(cfg *config.Config) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.SendGrid.APIKey),
		fromName:  cfg.SendGrid.FromName,
		fromEmail: cfg.SendGrid.FromEmail,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.fromEmail),
		subject,
		mail.NewEmail("", to),
		body,
		"",
	)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in dev
// and by tests.
type LogMailer struct {
	log *zap.SugaredLogger
}

func NewLogMailer(log *zap.SugaredLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logctx.FromCtx(ctx, m.log).Infow("email (log only)", "to", to, "subject", subject, "body", body)
	return nil
}

// NewMailer picks SendGrid when an API key is configured, otherwise logs.
func NewMailer(cfg *config.Config, log *zap.SugaredLogger) Mailer {
	if cfg.SendGrid.APIKey != "" {
		return NewSendGridMailer(cfg)
	}
	log.Warnw("sendgrid api key not configured, falling back to log-only mailer")
	return NewLogMailer(log)
}

var Module = fx.Options(
	fx.Provide(NewMailer),
)
