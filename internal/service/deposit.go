package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
)

type DepositRequest struct {
	UserID  uuid.UUID
	Amount  int64
	Method  domain.DepositMethod
	Receipt string
}

type DepositService struct {
	users        userRepo
	transactions transactionRepo
	db           txBeginner
}

func NewDepositService(users userRepo, transactions transactionRepo, db txBeginner) *DepositService {
	return &DepositService{users: users, transactions: transactions, db: db}
}

// CreateDeposit records a Pending Deposit entry. No balance moves until
// an admin approves it.
func (s *DepositService) CreateDeposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("CreateDeposit: %w", domain.ErrInvalidAmount)
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("CreateDeposit: %w", asUserNotFound(err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateDeposit: begin tx: %w", err)
	}
	defer tx.Rollback()

	var method *domain.DepositMethod
	if req.Method != "" {
		method = &req.Method
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    user.ID,
		Amount:    req.Amount,
		Type:      domain.TransactionTypeDeposit,
		Method:    method,
		Status:    domain.TransactionStatusPending,
		Receipt:   optional(req.Receipt),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.transactions.Create(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("CreateDeposit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateDeposit: commit: %w", err)
	}

	logging.FromContext(ctx).Info("deposit requested",
		"transaction_id", t.ID,
		"user_id", user.ID,
		"amount", req.Amount,
	)
	return t, nil
}
