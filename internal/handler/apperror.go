package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "Admin access required"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrUserNotFound        = &AppError{http.StatusNotFound, "USER_NOT_FOUND", "User not found"}
	ErrTransactionNotFound = &AppError{http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found"}
	ErrBookingNotFound     = &AppError{http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found"}
	ErrEmailTaken          = &AppError{http.StatusBadRequest, "EMAIL_TAKEN", "User with this email already exists"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Valid amount is required"}
	ErrInsufficientFunds   = &AppError{http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Insufficient balance"}
	ErrCodeExpired         = &AppError{http.StatusBadRequest, "CODE_EXPIRED", "Transaction code has expired"}
	ErrCodeMismatch        = &AppError{http.StatusBadRequest, "CODE_INVALID", "Invalid transaction code"}
	ErrCodeNotSet          = &AppError{http.StatusBadRequest, "CODE_NOT_SET", "Create a transaction code first"}
	ErrPINNotSet           = &AppError{http.StatusBadRequest, "PIN_NOT_SET", "Create a transfer pin"}
	ErrPINRequired         = &AppError{http.StatusBadRequest, "PIN_REQUIRED", "Transfer pin is required"}
	ErrPINMismatch         = &AppError{http.StatusBadRequest, "PIN_INVALID", "Invalid transfer pin"}
	ErrNotPending          = &AppError{http.StatusBadRequest, "NOT_PENDING", "Transaction is not pending"}
	ErrRestrictedField     = &AppError{http.StatusBadRequest, "RESTRICTED_FIELD", "Field cannot be updated through this endpoint"}
	ErrReasonRequired      = &AppError{http.StatusBadRequest, "REASON_REQUIRED", "Decline reason is required"}
	ErrSeatsTaken          = &AppError{http.StatusBadRequest, "SEATS_TAKEN", "Requested seats are already booked"}
)
