package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyProcessed  = errors.New("already processed")
	ErrConflict          = errors.New("conflict")
	ErrStorage           = errors.New("storage error")
	ErrVersionConflict   = errors.New("ledger document was modified concurrently")
)

// LedgerError carries a short user-facing message and the kind it belongs to.
type LedgerError struct {
	Kind    error
	Message string
}

func (e *LedgerError) Error() string { return e.Message }
func (e *LedgerError) Unwrap() error { return e.Kind }

func NewValidationError(format string, args ...any) error {
	return &LedgerError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(what string) error {
	return &LedgerError{Kind: ErrNotFound, Message: what + " not found"}
}

func NewInsufficientFundsError(available, requested decimal.Decimal) error {
	return &LedgerError{
		Kind:    ErrInsufficientFunds,
		Message: fmt.Sprintf("insufficient available balance: available %s, requested %s", available.StringFixed(2), requested.StringFixed(2)),
	}
}

func NewAlreadyProcessedError(status string) error {
	return &LedgerError{Kind: ErrAlreadyProcessed, Message: "withdrawal request already " + status}
}

func NewConflictError(format string, args ...any) error {
	return &LedgerError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// NewStorageError wraps a store failure; the underlying error stays reachable through errors.Is.
func NewStorageError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", ErrStorage, op, err)
}

// UserMessage returns the message safe to show to a caller.
func UserMessage(err error) string {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Message
	}
	if errors.Is(err, ErrVersionConflict) {
		return "The ledger changed while processing your request, please retry"
	}
	return "Internal server error"
}
