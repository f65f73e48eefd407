package service

import "context"

// ResetMailer delivers password-reset tokens out of band. Delivery itself is
// an external collaborator; the core only depends on this boundary.
type ResetMailer interface {
	// SendResetToken mails a reset token to the given address.
	SendResetToken(ctx context.Context, email, token string) error
}
