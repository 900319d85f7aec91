package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

// Consumer-side contracts over the repository layer. Services depend on
// these, not on the concrete postgres repositories, so tests can swap
// in fakes.

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.User, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance int64, newVersion int64) error
	List(ctx context.Context, search string) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.ProfileUpdate) (*domain.User, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, upd domain.AdminUserUpdate) (*domain.User, error)
	SetPIN(ctx context.Context, id uuid.UUID, pinHash string) error
	ClearPIN(ctx context.Context, id uuid.UUID) error
	SetTransactionCode(ctx context.Context, id uuid.UUID, codeHash string, expiresAt *time.Time, description *string) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Transaction, error)
	Settle(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.TransactionStatus, reason *string) error
	ListByUser(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]domain.Transaction, error)
	ListAll(ctx context.Context, typeFilter domain.TransactionType) ([]domain.Transaction, error)
	SumCompletedInRange(ctx context.Context, userID uuid.UUID, txType domain.TransactionType, from, to time.Time) (int64, error)
}

type seatRepo interface {
	FindTakenForUpdate(ctx context.Context, tx *sql.Tx, flightID string, seatNumbers []string) ([]domain.Seat, error)
	CreateBatch(ctx context.Context, tx *sql.Tx, seats []domain.Seat) error
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Seat, error)
}

type bookingRepo interface {
	Create(ctx context.Context, tx *sql.Tx, b *domain.Booking) error
	GetByRef(ctx context.Context, bookingRef string) (*domain.Booking, error)
}

type paymentRepo interface {
	Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error
}

type messageRepo interface {
	Create(ctx context.Context, m *domain.Message) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error)
	Conversations(ctx context.Context, adminID uuid.UUID) ([]domain.Conversation, error)
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// The repositories report a bare domain.ErrNotFound; the helpers below
// attach the entity so handlers can answer with the right 404.

func asUserNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}

func asTransactionNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrTransactionNotFound
	}
	return err
}

func asBookingNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrBookingNotFound
	}
	return err
}
