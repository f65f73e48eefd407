// Package mail implements outbound email delivery over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"adaptiv/config"
	"adaptiv/internal/domain/service"
	"adaptiv/internal/errors"
)

// smtpMailer sends password-reset tokens through a configured SMTP relay.
type smtpMailer struct {
	cfg *config.MailConfig
}

// NewSMTPMailer builds a ResetMailer backed by go-mail.
func NewSMTPMailer(cfg *config.Config) (service.ResetMailer, error) {
	if cfg.Mail == nil || cfg.Mail.Host == "" {
		return nil, errors.New("mail relay is not configured")
	}

	return &smtpMailer{cfg: cfg.Mail}, nil
}

// SendResetToken mails a reset token to the given address. A fresh client is
// dialed per send; reset volume is far too low to justify pooling.
func (m *smtpMailer) SendResetToken(ctx context.Context, email, token string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return errors.Wrap(err, "set sender")
	}
	if err := msg.To(email); err != nil {
		return errors.Wrap(err, "set recipient")
	}
	msg.Subject("Password reset request")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Reset token: %s\n\n"+
			"The token expires shortly. If you did not request a reset, you can ignore this message.\n",
		token,
	))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return errors.Wrap(err, "create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send reset mail")
	}

	return nil
}
