package mailer

import (
	"context"
	"fmt"
	"strings"

	"event-booking/pkg/config"
	"event-booking/pkg/logger"
	"event-booking/services/notification/internal/entity"
)

// Transport delivers a rendered email and returns the provider's response.
type Transport interface {
	Send(ctx context.Context, email *entity.Email) (string, error)
}

// NewTransport picks the transport named by MAIL_DRIVER.
func NewTransport(cfg *config.Config, log *logger.Logger) (Transport, error) {
	switch strings.ToLower(cfg.MailDriver) {
	case "smtp", "":
		return NewSMTPTransport(SMTPConfig{
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
			Username:     cfg.SMTPUsername,
			Password:     cfg.SMTPPassword,
			Encryption:   cfg.SMTPEncryption,
			ClientID:     cfg.EmailClientID,
			ClientSecret: cfg.EmailClientSecret,
			RefreshToken: cfg.EmailRefreshToken,
		}), nil
	case "log":
		return NewLogTransport(log), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	logger *logger.Logger
}

func NewLogTransport(log *logger.Logger) *LogTransport {
	return &LogTransport{logger: log}
}

func (t *LogTransport) Send(_ context.Context, email *entity.Email) (string, error) {
	t.logger.Info("[MAILER] to=%s subject=%q text_bytes=%d html_bytes=%d inline=%d",
		email.To, email.Subject, len(email.Text), len(email.HTML), len(email.Inline))
	return "logged", nil
}
