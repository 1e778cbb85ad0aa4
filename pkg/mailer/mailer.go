package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/anonto42/campus-diary/backend/pkg/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// New returns the relay selected by cfg.Provider.
func New(cfg config.EmailConfig, logger zerolog.Logger) (Mailer, error) {
	logger = logger.With().Str("component", "email").Str("provider", cfg.Provider).Logger()

	switch strings.ToLower(cfg.Provider) {
	case "log":
		return &logMailer{logger: logger}, nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required for the resend provider")
		}
		from, err := senderAddress(cfg)
		if err != nil {
			return nil, err
		}
		return &resendMailer{client: resend.NewClient(cfg.ResendAPIKey), from: from, logger: logger}, nil
	case "", "smtp":
		from, err := senderAddress(cfg)
		if err != nil {
			return nil, err
		}
		return &smtpMailer{cfg: cfg, from: from, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.Provider)
	}
}

// senderAddress formats the From header as "Name" <address>.
func senderAddress(cfg config.EmailConfig) (string, error) {
	if err := validateEmailAddress(cfg.From); err != nil {
		return "", fmt.Errorf("invalid sender email in config: %w", err)
	}
	return (&mail.Address{Name: cfg.FromName, Address: cfg.From}).String(), nil
}

// validateEmailAddress rejects malformed addresses and header injection.
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}

// logMailer writes messages to the log instead of sending them. Useful in
// development where no relay is configured.
type logMailer struct {
	logger zerolog.Logger
}

func (m *logMailer) Send(_ context.Context, to, subject, html string) error {
	m.logger.Info().Str("to", to).Str("subject", subject).Str("body", html).Msg("email not sent (log provider)")
	return nil
}
