package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrCodeExpired         = errors.New("transaction code has expired")
	ErrCodeMismatch        = errors.New("invalid transaction code")
	ErrCodeNotSet          = errors.New("transaction code not set up")
	ErrPINNotSet           = errors.New("transfer pin not set up")
	ErrPINRequired         = errors.New("transfer pin is required")
	ErrPINMismatch         = errors.New("invalid transfer pin")
	ErrNotPending          = errors.New("transaction is not pending")
	ErrReasonRequired      = errors.New("decline reason is required")
	ErrSeatsTaken          = errors.New("seats already booked")
	ErrRestrictedField     = errors.New("field cannot be updated")
	ErrVersionConflict     = errors.New("optimistic lock conflict")
	ErrInvalidRequest      = errors.New("invalid request")
)

// SeatConflictError carries the seat numbers that were already taken so
// the caller can name them in the rejection.
type SeatConflictError struct {
	SeatNumbers []string
}

func (e *SeatConflictError) Error() string { return ErrSeatsTaken.Error() }

func (e *SeatConflictError) Unwrap() error { return ErrSeatsTaken }
