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

type stubBookingService struct {
	called bool
	gotReq service.PaymentLinkRequest
	link   *service.PaymentLink
	err    error
}

func (s *stubBookingService) GeneratePaymentLink(ctx context.Context, req service.PaymentLinkRequest) (*service.PaymentLink, error) {
	s.called = true
	s.gotReq = req
	return s.link, s.err
}

func (s *stubBookingService) TrackBooking(ctx context.Context, bookingRef string) (*service.TrackedBooking, error) {
	s.called = true
	return nil, s.err
}

func doGenerateLink(t *testing.T, h *BookingHandler, userID uuid.UUID, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/generate-link", bytes.NewReader(raw))
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), auth.Identity{
		UserID: userID,
		Role:   domain.RoleUser,
	}))

	rec := httptest.NewRecorder()
	h.GeneratePaymentLink(rec, req)
	return rec
}

func validLinkBody() map[string]any {
	return map[string]any{
		"flightId":      "FZ-100",
		"seatNumbers":   []string{"12A", "12B"},
		"class":         "economy",
		"amount":        45_000,
		"currency":      "USD",
		"paymentMethod": "card",
	}
}

func TestBookingHandler_GeneratePaymentLink(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()
	stub := &stubBookingService{
		link: &service.PaymentLink{
			URL: "https://flyzoneairlines.com/payment/token",
			Booking: &domain.Booking{
				ID:            uuid.New(),
				BookingRef:    "BOOK-9f3a21bc",
				UserID:        userID,
				FlightID:      "FZ-100",
				Class:         "economy",
				Status:        domain.BookingStatusPending,
				PaymentStatus: domain.PaymentStatusPending,
				CreatedAt:     now,
			},
			Payment: &domain.Payment{
				ID:             uuid.New(),
				Amount:         45_000,
				Currency:       "USD",
				TransactionRef: uuid.NewString(),
				Status:         domain.PaymentStatusPending,
				CreatedAt:      now,
			},
		},
	}
	h := NewBookingHandler(stub)

	rec := doGenerateLink(t, h, userID, validLinkBody())

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, stub.gotReq.UserID)
	assert.Equal(t, "USD", stub.gotReq.Currency)
	assert.Equal(t, "card", stub.gotReq.PaymentMethod)
}

func TestBookingHandler_GeneratePaymentLink_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{name: "missing flightId", mutate: func(b map[string]any) { delete(b, "flightId") }},
		{name: "no seats", mutate: func(b map[string]any) { b["seatNumbers"] = []string{} }},
		{name: "duplicate seat", mutate: func(b map[string]any) { b["seatNumbers"] = []string{"12A", "12A"} }},
		{name: "missing class", mutate: func(b map[string]any) { delete(b, "class") }},
		{name: "zero amount", mutate: func(b map[string]any) { b["amount"] = 0 }},
		{name: "missing currency", mutate: func(b map[string]any) { delete(b, "currency") }},
		{name: "missing paymentMethod", mutate: func(b map[string]any) { delete(b, "paymentMethod") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubBookingService{}
			h := NewBookingHandler(stub)

			body := validLinkBody()
			tc.mutate(body)
			rec := doGenerateLink(t, h, uuid.New(), body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
			assert.False(t, stub.called)
		})
	}
}
