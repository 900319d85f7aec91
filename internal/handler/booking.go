package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
)

type bookingService interface {
	GeneratePaymentLink(ctx context.Context, req service.PaymentLinkRequest) (*service.PaymentLink, error)
	TrackBooking(ctx context.Context, bookingRef string) (*service.TrackedBooking, error)
}

type BookingHandler struct {
	bookings bookingService
}

func NewBookingHandler(bookings bookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type paymentLinkRequest struct {
	FlightID      string          `json:"flightId"`
	SeatNumbers   []string        `json:"seatNumbers"`
	Class         string          `json:"class"`
	Amount        int64           `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod"`
	ConfirmEmail  string          `json:"confirmEmail"`
	Travellers    json.RawMessage `json:"travellers"`
}

func (r paymentLinkRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FlightID == "" {
		errs = append(errs, FieldError{Field: "flightId", Message: "required"})
	}
	if len(r.SeatNumbers) == 0 {
		errs = append(errs, FieldError{Field: "seatNumbers", Message: "at least one seat is required"})
	}
	seen := make(map[string]bool, len(r.SeatNumbers))
	for _, n := range r.SeatNumbers {
		if n == "" {
			errs = append(errs, FieldError{Field: "seatNumbers", Message: "seat numbers cannot be empty"})
			break
		}
		if seen[n] {
			errs = append(errs, FieldError{Field: "seatNumbers", Message: "duplicate seat " + n})
			break
		}
		seen[n] = true
	}
	if r.Class == "" {
		errs = append(errs, FieldError{Field: "class", Message: "required"})
	}
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.Currency == "" {
		errs = append(errs, FieldError{Field: "currency", Message: "required"})
	}
	if r.PaymentMethod == "" {
		errs = append(errs, FieldError{Field: "paymentMethod", Message: "required"})
	}
	return errs
}

type paymentLinkResponse struct {
	PaymentLink string     `json:"paymentLink"`
	Booking     bookingDTO `json:"booking"`
	Payment     struct {
		ID             string `json:"id"`
		TransactionRef string `json:"transactionRef"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
		Status         string `json:"status"`
	} `json:"payment"`
}

// GeneratePaymentLink reserves seats for the caller and returns a signed
// payment link for the resulting booking.
func (h *BookingHandler) GeneratePaymentLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req paymentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	link, err := h.bookings.GeneratePaymentLink(r.Context(), service.PaymentLinkRequest{
		UserID:        userID,
		FlightID:      req.FlightID,
		SeatNumbers:   req.SeatNumbers,
		Class:         req.Class,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		ConfirmEmail:  req.ConfirmEmail,
		Travellers:    req.Travellers,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	resp := paymentLinkResponse{
		PaymentLink: link.URL,
		Booking:     toBookingDTO(link.Booking, nil),
	}
	resp.Payment.ID = link.Payment.ID.String()
	resp.Payment.TransactionRef = link.Payment.TransactionRef
	resp.Payment.Amount = link.Payment.Amount
	resp.Payment.Currency = link.Payment.Currency
	resp.Payment.Status = string(link.Payment.Status)

	RespondSuccess(w, http.StatusCreated, resp)
}

// Track looks a booking up by its public reference, e.g. BOOK-9f3a21bc.
func (h *BookingHandler) Track(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if ref == "" {
		RespondAppError(w, ErrBookingNotFound, nil)
		return
	}

	tracked, err := h.bookings.TrackBooking(r.Context(), ref)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toBookingDTO(tracked.Booking, tracked.Seats))
}
