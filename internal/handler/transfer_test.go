package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
)

type stubTransferService struct {
	gotReq service.TransferRequest
	entry  *domain.Transaction
	err    error
}

func (s *stubTransferService) CreateTransfer(ctx context.Context, req service.TransferRequest) (*domain.Transaction, error) {
	s.gotReq = req
	return s.entry, s.err
}

func (s *stubTransferService) CreateTransferWithCode(ctx context.Context, req service.TransferRequest) (*domain.Transaction, error) {
	s.gotReq = req
	return s.entry, s.err
}

func doTransferRequest(t *testing.T, h http.HandlerFunc, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/transfer", bytes.NewReader(raw))
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{
		UserID: userID,
		Role:   domain.RoleUser,
	}))

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestTransferHandler_Create(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()
	stub := &stubTransferService{
		entry: &domain.Transaction{
			ID:        uuid.New(),
			UserID:    userID,
			Amount:    3000,
			Type:      domain.TransactionTypeTransfer,
			Status:    domain.TransactionStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	h := NewTransferHandler(stub)

	rec := doTransferRequest(t, h.Create, userID, map[string]any{
		"amount":        3000,
		"accountNumber": "12345678",
		"bankName":      "First Bank",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, userID, stub.gotReq.UserID)
	assert.Equal(t, int64(3000), stub.gotReq.Amount)
	assert.Equal(t, "First Bank", stub.gotReq.Bank.BankName)
}

func TestTransferHandler_Create_Validation(t *testing.T) {
	h := NewTransferHandler(&stubTransferService{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "zero amount", body: map[string]any{"amount": 0, "accountNumber": "1", "bankName": "b"}},
		{name: "negative amount", body: map[string]any{"amount": -5, "accountNumber": "1", "bankName": "b"}},
		{name: "missing account number", body: map[string]any{"amount": 100, "bankName": "b"}},
		{name: "missing bank name", body: map[string]any{"amount": 100, "accountNumber": "1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doTransferRequest(t, h.Create, uuid.New(), tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		})
	}
}

func TestTransferHandler_CreateWithCode_RequiresCode(t *testing.T) {
	h := NewTransferHandler(&stubTransferService{})

	rec := doTransferRequest(t, h.CreateWithCode, uuid.New(), map[string]any{
		"amount":        100,
		"accountNumber": "12345678",
		"bankName":      "First Bank",
		"pin":           "5678",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestTransferHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "insufficient funds", err: domain.ErrInsufficientFunds, wantStatus: http.StatusBadRequest, wantCode: "INSUFFICIENT_BALANCE"},
		{name: "expired code", err: domain.ErrCodeExpired, wantStatus: http.StatusBadRequest, wantCode: "CODE_EXPIRED"},
		{name: "wrong code", err: domain.ErrCodeMismatch, wantStatus: http.StatusBadRequest, wantCode: "CODE_INVALID"},
		{name: "pin not set", err: domain.ErrPINNotSet, wantStatus: http.StatusBadRequest, wantCode: "PIN_NOT_SET"},
		{name: "user missing", err: domain.ErrUserNotFound, wantStatus: http.StatusNotFound, wantCode: "USER_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTransferHandler(&stubTransferService{err: tc.err})

			rec := doTransferRequest(t, h.CreateWithCode, uuid.New(), map[string]any{
				"amount":        100,
				"accountNumber": "12345678",
				"bankName":      "First Bank",
				"code":          "code-1234",
				"pin":           "5678",
			})

			require.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestTransferHandler_MissingIdentity(t *testing.T) {
	h := NewTransferHandler(&stubTransferService{})

	req := httptest.NewRequest(http.MethodPost, "/api/transfer", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
