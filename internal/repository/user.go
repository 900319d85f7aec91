package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

const userColumns = `id, full_name, image, email, password_hash, mobile, address,
	nationality, dob, gender, role, account_number, balance, status,
	transaction_code_hash, transaction_code_expires_at, code_description,
	pin_hash, version, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (
			id, full_name, image, email, password_hash, mobile, address,
			nationality, dob, gender, role, account_number, balance, status,
			pin_hash, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		u.ID, u.FullName, u.Image, u.Email, u.PasswordHash, u.Mobile, u.Address,
		u.Nationality, u.DOB, u.Gender, u.Role, u.AccountNumber, u.Balance, u.Status,
		u.PINHash, u.Version, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		// Two registrations racing past the GetByEmail check land here;
		// the loser gets the same answer a sequential duplicate would.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" && strings.Contains(pqErr.Constraint, "email") {
			return fmt.Errorf("Create: %w", domain.ErrEmailTaken)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByEmail: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}

// GetForUpdate locks the user row for the duration of the surrounding
// transaction. Every balance mutation goes through this.
func (r *UserRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.User, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance int64, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET balance = $1, version = $2, updated_at = now() WHERE id = $3 AND version = $4`,
		newBalance, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, search string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if search != "" {
		query += ` WHERE full_name ILIKE $1 OR email ILIKE $1 OR account_number ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.ProfileUpdate) (*domain.User, error) {
	sets, args := buildSets(map[string]any{
		"email":     upd.Email,
		"full_name": upd.FullName,
		"image":     upd.Image,
	})
	return r.applyUpdate(ctx, "UpdateProfile", id, sets, args)
}

func (r *UserRepository) AdminUpdate(ctx context.Context, id uuid.UUID, upd domain.AdminUserUpdate) (*domain.User, error) {
	sets, args := buildSets(map[string]any{
		"full_name":      upd.FullName,
		"image":          upd.Image,
		"email":          upd.Email,
		"mobile":         upd.Mobile,
		"address":        upd.Address,
		"nationality":    upd.Nationality,
		"dob":            upd.DOB,
		"gender":         upd.Gender,
		"role":           upd.Role,
		"account_number": upd.AccountNumber,
		"status":         upd.Status,
	})
	return r.applyUpdate(ctx, "AdminUpdate", id, sets, args)
}

func (r *UserRepository) SetPIN(ctx context.Context, id uuid.UUID, pinHash string) error {
	return r.exec(ctx, "SetPIN",
		`UPDATE users SET pin_hash = $1, updated_at = now() WHERE id = $2`, pinHash, id)
}

func (r *UserRepository) ClearPIN(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "ClearPIN",
		`UPDATE users SET pin_hash = NULL, updated_at = now() WHERE id = $1`, id)
}

func (r *UserRepository) SetTransactionCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt *time.Time, description *string) error {
	return r.exec(ctx, "SetTransactionCode",
		`UPDATE users SET transaction_code_hash = $1, transaction_code_expires_at = $2,
			code_description = $3, updated_at = now() WHERE id = $4`,
		codeHash, expiresAt, description, id)
}

func (r *UserRepository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) applyUpdate(ctx context.Context, op string, id uuid.UUID, sets []string, args []any) (*domain.User, error) {
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = now() WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args),
	)

	row := r.db.QueryRowContext(ctx, query, args...)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func buildSets(cols map[string]any) ([]string, []any) {
	// Deterministic order keeps the generated SQL stable.
	keys := make([]string, 0, len(cols))
	for k := range cols {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sets []string
	var args []any
	for _, col := range keys {
		v := cols[col]
		if isNilPointer(v) {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return sets, args
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *string:
		return p == nil
	case *domain.Gender:
		return p == nil
	case *domain.Role:
		return p == nil
	case *domain.UserStatus:
		return p == nil
	default:
		return v == nil
	}
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		u           domain.User
		codeHash    *string
		codeExpires *time.Time
	)
	err := s.Scan(
		&u.ID, &u.FullName, &u.Image, &u.Email, &u.PasswordHash, &u.Mobile, &u.Address,
		&u.Nationality, &u.DOB, &u.Gender, &u.Role, &u.AccountNumber, &u.Balance, &u.Status,
		&codeHash, &codeExpires, &u.CodeDescription,
		&u.PINHash, &u.Version, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if codeHash != nil {
		u.TransactionCode = &domain.TransactionCode{Hash: *codeHash, ExpiresAt: codeExpires}
	}
	return &u, nil
}
