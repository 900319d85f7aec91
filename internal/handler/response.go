package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError translates service-layer sentinels into the HTTP
// error catalogue. Anything unmapped is logged and reported as a
// generic 500; no internal detail leaves the process.
func RespondDomainError(w http.ResponseWriter, err error) {
	var conflict *domain.SeatConflictError
	if errors.As(err, &conflict) {
		RespondAppError(w, &AppError{
			Status:  http.StatusBadRequest,
			Code:    ErrSeatsTaken.Code,
			Message: fmt.Sprintf("Seats %s are already booked", strings.Join(conflict.SeatNumbers, ", ")),
		}, map[string]any{"seats": conflict.SeatNumbers})
		return
	}

	var appErr *AppError
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		appErr = ErrUserNotFound
	case errors.Is(err, domain.ErrTransactionNotFound):
		appErr = ErrTransactionNotFound
	case errors.Is(err, domain.ErrBookingNotFound):
		appErr = ErrBookingNotFound
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		appErr = ErrEmailTaken
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrInsufficientFunds):
		appErr = ErrInsufficientFunds
	case errors.Is(err, domain.ErrCodeExpired):
		appErr = ErrCodeExpired
	case errors.Is(err, domain.ErrCodeMismatch):
		appErr = ErrCodeMismatch
	case errors.Is(err, domain.ErrCodeNotSet):
		appErr = ErrCodeNotSet
	case errors.Is(err, domain.ErrPINNotSet):
		appErr = ErrPINNotSet
	case errors.Is(err, domain.ErrPINRequired):
		appErr = ErrPINRequired
	case errors.Is(err, domain.ErrPINMismatch):
		appErr = ErrPINMismatch
	case errors.Is(err, domain.ErrNotPending):
		appErr = ErrNotPending
	case errors.Is(err, domain.ErrReasonRequired):
		appErr = ErrReasonRequired
	case errors.Is(err, domain.ErrRestrictedField):
		appErr = ErrRestrictedField
	case errors.Is(err, domain.ErrSeatsTaken):
		appErr = ErrSeatsTaken
	case errors.Is(err, domain.ErrInvalidRequest):
		appErr = ErrInvalidRequest
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
