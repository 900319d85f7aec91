package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

const bookingColumns = `id, booking_ref, user_id, flight_id, class, seat_ids,
	travellers, status, payment_status, created_at`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, tx *sql.Tx, b *domain.Booking) error {
	seatIDs := make([]string, len(b.SeatIDs))
	for i, id := range b.SeatIDs {
		seatIDs[i] = id.String()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (
			id, booking_ref, user_id, flight_id, class, seat_ids,
			travellers, status, payment_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.BookingRef, b.UserID, b.FlightID, b.Class, pq.Array(seatIDs),
		b.Travellers, b.Status, b.PaymentStatus, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByRef(ctx context.Context, bookingRef string) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE booking_ref = $1`, bookingRef,
	)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByRef: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByRef: %w", err)
	}
	return b, nil
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var (
		b       domain.Booking
		seatIDs pq.StringArray
	)
	err := s.Scan(
		&b.ID, &b.BookingRef, &b.UserID, &b.FlightID, &b.Class, &seatIDs,
		&b.Travellers, &b.Status, &b.PaymentStatus, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.SeatIDs = make([]uuid.UUID, len(seatIDs))
	for i, raw := range seatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("scanBooking: seat id: %w", err)
		}
		b.SeatIDs[i] = id
	}
	return &b, nil
}
