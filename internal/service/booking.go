package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
)

type PaymentLinkRequest struct {
	UserID        uuid.UUID
	FlightID      string
	SeatNumbers   []string
	Class         string
	Amount        int64
	Currency      string
	PaymentMethod string
	ConfirmEmail  string
	Travellers    json.RawMessage
}

type PaymentLink struct {
	URL     string
	Booking *domain.Booking
	Payment *domain.Payment
}

// TrackedBooking is a booking joined with its seats, for the tracking
// endpoint.
type TrackedBooking struct {
	Booking *domain.Booking
	Seats   []domain.Seat
}

type BookingService struct {
	seats    seatRepo
	bookings bookingRepo
	payments paymentRepo
	db       txBeginner

	linkSecret  string
	linkBaseURL string
	linkTTL     time.Duration
}

func NewBookingService(seats seatRepo, bookings bookingRepo, payments paymentRepo, db txBeginner, linkSecret, linkBaseURL string, linkTTL time.Duration) *BookingService {
	return &BookingService{
		seats:       seats,
		bookings:    bookings,
		payments:    payments,
		db:          db,
		linkSecret:  linkSecret,
		linkBaseURL: strings.TrimRight(linkBaseURL, "/"),
		linkTTL:     linkTTL,
	}
}

// GeneratePaymentLink reserves the requested seats, creates the booking
// and its payment record, and returns a link carrying a signed token
// bound to the payment. All writes share one transaction: a seat
// conflict, or any failure, leaves nothing behind.
func (s *BookingService) GeneratePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: begin tx: %w", err)
	}
	defer tx.Rollback()

	taken, err := s.seats.FindTakenForUpdate(ctx, tx, req.FlightID, req.SeatNumbers)
	if err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: %w", err)
	}
	if len(taken) > 0 {
		numbers := make([]string, len(taken))
		for i, seat := range taken {
			numbers[i] = seat.SeatNumber
		}
		sort.Strings(numbers)
		return nil, fmt.Errorf("GeneratePaymentLink: %w", &domain.SeatConflictError{SeatNumbers: numbers})
	}

	now := time.Now().UTC()

	seats := make([]domain.Seat, len(req.SeatNumbers))
	seatIDs := make([]uuid.UUID, len(req.SeatNumbers))
	for i, number := range req.SeatNumbers {
		seats[i] = domain.Seat{
			ID:         uuid.New(),
			FlightID:   req.FlightID,
			SeatNumber: number,
			Class:      req.Class,
			CreatedAt:  now,
		}
		seatIDs[i] = seats[i].ID
	}
	if err := s.seats.CreateBatch(ctx, tx, seats); err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: %w", err)
	}

	booking := &domain.Booking{
		ID:            uuid.New(),
		BookingRef:    newBookingRef(),
		UserID:        req.UserID,
		FlightID:      req.FlightID,
		Class:         req.Class,
		SeatIDs:       seatIDs,
		Travellers:    req.Travellers,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
	}
	if err := s.bookings.Create(ctx, tx, booking); err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: booking: %w", err)
	}

	payment := &domain.Payment{
		ID:             uuid.New(),
		BookingID:      booking.ID,
		UserID:         req.UserID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		PaymentMethod:  req.PaymentMethod,
		TransactionRef: uuid.NewString(),
		Status:         domain.PaymentStatusPending,
		ConfirmEmail:   optional(req.ConfirmEmail),
		CreatedAt:      now,
	}
	if err := s.payments.Create(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: payment: %w", err)
	}

	token, err := auth.SignPaymentLink(payment.ID, s.linkSecret, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("GeneratePaymentLink: commit: %w", err)
	}

	logging.FromContext(ctx).Info("payment link generated",
		"booking_ref", booking.BookingRef,
		"payment_id", payment.ID,
		"flight_id", req.FlightID,
		"seats", len(seats),
	)

	return &PaymentLink{
		URL:     fmt.Sprintf("%s/payment/%s", s.linkBaseURL, token),
		Booking: booking,
		Payment: payment,
	}, nil
}

func (s *BookingService) TrackBooking(ctx context.Context, bookingRef string) (*TrackedBooking, error) {
	booking, err := s.bookings.GetByRef(ctx, bookingRef)
	if err != nil {
		return nil, fmt.Errorf("TrackBooking: %w", asBookingNotFound(err))
	}

	seats, err := s.seats.GetByIDs(ctx, booking.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("TrackBooking: %w", err)
	}

	return &TrackedBooking{Booking: booking, Seats: seats}, nil
}

// newBookingRef builds the short human-readable booking id, e.g.
// BOOK-9f3a21bc.
func newBookingRef() string {
	return "BOOK-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
