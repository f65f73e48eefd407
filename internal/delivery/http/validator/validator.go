// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound requests.
package validator

import (
	domainerrors "adaptiv/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator instance.
type Validator struct {
	validate *playground.Validate
}

// New creates the echo request validator.
func New() *Validator {
	return &Validator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Violations surface as the shared
// validation error so the error middleware renders a 400 envelope.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
