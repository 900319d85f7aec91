package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

func TestRespondDomainError_SeatConflict(t *testing.T) {
	rec := httptest.NewRecorder()

	err := fmt.Errorf("GeneratePaymentLink: %w", &domain.SeatConflictError{
		SeatNumbers: []string{"12A", "12B"},
	})
	RespondDomainError(rec, err)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SEATS_TAKEN", resp.Error.Code)
	assert.Equal(t, "Seats 12A, 12B are already booked", resp.Error.Message)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"12A", "12B"}, details["seats"])
}

func TestRespondDomainError_SentinelMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{err: domain.ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: "USER_NOT_FOUND"},
		{err: domain.ErrTransactionNotFound, wantStatus: http.StatusNotFound, wantCode: "TRANSACTION_NOT_FOUND"},
		{err: domain.ErrBookingNotFound, wantStatus: http.StatusNotFound, wantCode: "BOOKING_NOT_FOUND"},
		{err: domain.ErrEmailTaken, wantStatus: http.StatusBadRequest, wantCode: "EMAIL_TAKEN"},
		{err: domain.ErrInsufficientFunds, wantStatus: http.StatusBadRequest, wantCode: "INSUFFICIENT_BALANCE"},
		{err: domain.ErrNotPending, wantStatus: http.StatusBadRequest, wantCode: "NOT_PENDING"},
		{err: domain.ErrReasonRequired, wantStatus: http.StatusBadRequest, wantCode: "REASON_REQUIRED"},
		{err: errors.New("database on fire"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondDomainError(rec, fmt.Errorf("op: %w", tc.err))

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestRespondSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, http.StatusOK, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}
