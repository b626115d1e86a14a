// Package validation holds request-level checks for the HTTP surface.
package validation

import (
	"ezpay/internal/errors"

	"github.com/shopspring/decimal"
)

// MaxMessageLen bounds the free-text payment note. The payload may carry
// only a snippet of it; the store keeps the full text.
const MaxMessageLen = 99

// ValidateGenerateRequest checks the client-supplied generation inputs.
// Amount is an exact decimal string; floats never enter the system.
func ValidateGenerateRequest(amount, message string) error {
	if amount == "" {
		return &errors.DomainError{
			Code:    "INVALID_REQUEST",
			Message: "amount is required",
		}
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return &errors.DomainError{
			Code:    "INVALID_REQUEST",
			Message: "amount must be a decimal number",
		}
	}
	if !d.IsPositive() {
		return &errors.DomainError{
			Code:    "INVALID_REQUEST",
			Message: "amount must be positive",
		}
	}
	if len(message) > MaxMessageLen {
		return &errors.DomainError{
			Code:    "INVALID_REQUEST",
			Message: "message is too long",
		}
	}
	return nil
}
