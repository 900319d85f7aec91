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

const seatColumns = `id, flight_id, seat_number, class, created_at`

type SeatRepository struct {
	db *sql.DB
}

func NewSeatRepository(db *sql.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// FindTakenForUpdate locks any existing seats for the flight that clash
// with the requested numbers. Run inside the booking transaction so the
// conflict check and the inserts see the same snapshot; the unique
// index on (flight_id, seat_number) catches the race it cannot.
func (r *SeatRepository) FindTakenForUpdate(ctx context.Context, tx *sql.Tx, flightID string, seatNumbers []string) ([]domain.Seat, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats
		WHERE flight_id = $1 AND seat_number = ANY($2) FOR UPDATE`,
		flightID, pq.Array(seatNumbers),
	)
	if err != nil {
		return nil, fmt.Errorf("FindTakenForUpdate: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, fmt.Errorf("FindTakenForUpdate: scan: %w", err)
		}
		seats = append(seats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindTakenForUpdate: rows: %w", err)
	}
	return seats, nil
}

// CreateBatch inserts the requested seats. A concurrent booking that
// committed the same (flight, seat) after our FOR UPDATE check trips
// the unique index here; that loss is reported as a seat conflict, not
// a storage failure.
func (r *SeatRepository) CreateBatch(ctx context.Context, tx *sql.Tx, seats []domain.Seat) error {
	for _, s := range seats {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO seats (id, flight_id, seat_number, class, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, s.FlightID, s.SeatNumber, s.Class, s.CreatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("CreateBatch: %w", &domain.SeatConflictError{SeatNumbers: []string{s.SeatNumber}})
			}
			return fmt.Errorf("CreateBatch: seat %s: %w", s.SeatNumber, err)
		}
	}
	return nil
}

func (r *SeatRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE id = ANY($1) ORDER BY seat_number`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("GetByIDs: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByIDs: scan: %w", err)
		}
		seats = append(seats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByIDs: rows: %w", err)
	}
	return seats, nil
}

func scanSeat(s scanner) (*domain.Seat, error) {
	var seat domain.Seat
	if err := s.Scan(&seat.ID, &seat.FlightID, &seat.SeatNumber, &seat.Class, &seat.CreatedAt); err != nil {
		return nil, err
	}
	return &seat, nil
}
