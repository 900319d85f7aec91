package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

const transactionColumns = `id, user_id, amount, type, method, status,
	account_number, bank_name, account_name, iban, swift_code,
	receipt, reason, created_at, updated_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, user_id, amount, type, method, status,
			account_number, bank_name, account_name, iban, swift_code,
			receipt, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID, t.UserID, t.Amount, t.Type, t.Method, t.Status,
		t.AccountNumber, t.BankName, t.AccountName, t.IBAN, t.SwiftCode,
		t.Receipt, t.Reason, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Transaction, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return t, nil
}

// Settle moves a Pending entry to a terminal status. The status guard
// in the WHERE clause is the compare-and-swap that keeps two concurrent
// settlements from both transitioning the same entry.
func (r *TransactionRepository) Settle(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.TransactionStatus, reason *string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET status = $1, reason = $2, updated_at = now()
		WHERE id = $3 AND status = $4`,
		status, reason, id, domain.TransactionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("Settle: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Settle: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Settle: %w", domain.ErrNotPending)
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}
	if typeFilter != "" {
		args = append(args, typeFilter)
		query += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	return r.list(ctx, "ListByUser", query, args...)
}

func (r *TransactionRepository) ListAll(ctx context.Context, typeFilter domain.TransactionType) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	var args []any
	if typeFilter != "" {
		args = append(args, typeFilter)
		query += ` WHERE type = $1`
	}
	query += ` ORDER BY created_at DESC`

	return r.list(ctx, "ListAll", query, args...)
}

// SumCompletedInRange totals Completed entries of one type for one user
// over [from, to), feeding the profile's monthly stats.
func (r *TransactionRepository) SumCompletedInRange(ctx context.Context, userID uuid.UUID, txType domain.TransactionType, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = $1 AND type = $2 AND status = $3
		AND created_at >= $4 AND created_at < $5`,
		userID, txType, domain.TransactionStatusCompleted, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("SumCompletedInRange: %w", err)
	}
	return total, nil
}

func (r *TransactionRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return entries, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Method, &t.Status,
		&t.AccountNumber, &t.BankName, &t.AccountName, &t.IBAN, &t.SwiftCode,
		&t.Receipt, &t.Reason, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
