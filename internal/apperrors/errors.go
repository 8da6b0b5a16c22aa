package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrImbalanced indicates that the debit and credit sides of a transaction group do not match.
var ErrImbalanced = errors.New("transaction group does not balance")

// ErrUnknownAccount indicates that an entry references an account the owner does not hold.
var ErrUnknownAccount = errors.New("unknown account")

// ErrInvalidAmount indicates a zero, negative, or over-precise monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates a posting that would overdraw an account or breach its credit limit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNotReversible indicates that a transaction group cannot be reversed
// (it does not exist, is itself a reversal, or was already reversed).
var ErrNotReversible = errors.New("transaction group is not reversible")

// ErrAlreadyResolved indicates a pending transaction that has already been
// approved, rejected, or expired.
var ErrAlreadyResolved = errors.New("pending transaction already resolved")

// ErrLoanAlreadyPaid indicates a payment attempt against a fully repaid loan.
var ErrLoanAlreadyPaid = errors.New("loan already paid")

// ErrConcurrencyConflict indicates an optimistic-lock failure while updating a
// cached account balance. The caller should retry the single posting.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// AppError carries an internal code alongside the wrapped cause. Repositories
// use it to report infrastructure failures without leaking driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that also matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
