package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type resendMailer struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// Send delivers through the Resend API. Rate limits are reported, not retried.
func (m *resendMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := validateEmailAddress(to); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			m.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded: %w", err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	m.logger.Info().Str("email_id", sent.Id).Str("to", to).Msg("email sent via Resend")
	return nil
}
