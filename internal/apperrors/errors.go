package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrAlreadyDeleted indicates that the target resource has been soft-deleted.
var ErrAlreadyDeleted = errors.New("resource already deleted")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Consistency rule failures. Detection sites wrap these with the offending
// entity and the current vs attempted values via fmt.Errorf("%w: ...").
var (
	// ErrCapExceeded indicates an allocation would exceed a transaction or
	// cost-detail ceiling.
	ErrCapExceeded = errors.New("allocation cap exceeded")

	// ErrPaidFloorViolation indicates an allocation edit would drop the
	// planned amount below what has already been paid for the pair.
	ErrPaidFloorViolation = errors.New("planned amount below already paid amount")

	// ErrNoTransaction indicates a payment order line resolves no funding
	// transaction, neither its own nor the order header's.
	ErrNoTransaction = errors.New("payment line resolves no funding transaction")

	// ErrExceedsAllocation indicates payment lines would exceed the planned
	// allocation for the (transaction, cost detail) pair.
	ErrExceedsAllocation = errors.New("payment exceeds planned allocation")

	// ErrExceedsApproval indicates payment lines would exceed the funding
	// transaction's approved amount.
	ErrExceedsApproval = errors.New("payment exceeds approved amount")

	// ErrOrderLocked indicates a mutation was attempted on a booked payment order.
	ErrOrderLocked = errors.New("payment order is locked")

	// ErrCrossProjectMismatch indicates a funding transaction references a
	// budget belonging to a different project.
	ErrCrossProjectMismatch = errors.New("budget belongs to a different project")
)

// AppError carries an error code alongside a message, used by the
// repository layer where the failure is infrastructural rather than a
// domain rule.
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

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches errors.Is(err, ErrValidation).
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
