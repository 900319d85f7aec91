package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

const paymentColumns = `id, booking_id, user_id, amount, currency, payment_method,
	transaction_ref, status, confirm_email, created_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (
			id, booking_id, user_id, amount, currency, payment_method,
			transaction_ref, status, confirm_email, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.BookingID, p.UserID, p.Amount, p.Currency, p.PaymentMethod,
		p.TransactionRef, p.Status, p.ConfirmEmail, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Scan(
		&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Currency, &p.PaymentMethod,
		&p.TransactionRef, &p.Status, &p.ConfirmEmail, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
