// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/service"
)

// --- Input DTOs ---

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string
}

// RequestPasswordResetInput identifies the account asking for a reset.
type RequestPasswordResetInput struct {
	Email string
}

// ConfirmPasswordResetInput carries the reset token and replacement password.
type ConfirmPasswordResetInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	Tokens  *service.TokenPair
	Account *entity.Account
}

// RefreshOutput returns the new token pair minted from a refresh token.
type RefreshOutput struct {
	Tokens *service.TokenPair
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Login verifies credentials and returns a token pair. Brute-force
	// lockout and the anti-enumeration policy live here.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Refresh mints a new token pair from a valid refresh token. The
	// account's current status is re-checked; lockout is not, since
	// possession of a refresh token proves a past successful login.
	Refresh(ctx context.Context, input *RefreshInput) (*RefreshOutput, error)

	// RequestPasswordReset issues and mails a reset token. It reports
	// success whether or not the email is registered.
	RequestPasswordReset(ctx context.Context, input *RequestPasswordResetInput) error

	// ConfirmPasswordReset sets a new password from a valid reset token
	// and clears any active lockout.
	ConfirmPasswordReset(ctx context.Context, input *ConfirmPasswordResetInput) error
}
