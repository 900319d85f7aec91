package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
)

// AdminFundsService applies direct balance adjustments. There is no
// pending state: admin authority stands in for the user's secrets, and
// the ledger entry is written already Completed.
type AdminFundsService struct {
	users        userRepo
	transactions transactionRepo
	db           txBeginner
}

func NewAdminFundsService(users userRepo, transactions transactionRepo, db txBeginner) *AdminFundsService {
	return &AdminFundsService{users: users, transactions: transactions, db: db}
}

// Fund credits the target balance and logs a Completed Deposit entry.
// Returns the new balance.
func (s *AdminFundsService) Fund(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("Fund: %w", domain.ErrInvalidAmount)
	}

	newBalance, err := s.adjust(ctx, userID, amount, domain.TransactionTypeDeposit, nil)
	if err != nil {
		return 0, fmt.Errorf("Fund: %w", err)
	}

	logging.FromContext(ctx).Info("account funded", "user_id", userID, "amount", amount)
	return newBalance, nil
}

// Debit deducts from the target balance, rejecting when funds are
// short, and logs a Completed Withdrawal entry carrying the reason.
func (s *AdminFundsService) Debit(ctx context.Context, userID uuid.UUID, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("Debit: %w", domain.ErrInvalidAmount)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	newBalance, err := s.adjust(ctx, userID, -amount, domain.TransactionTypeWithdrawal, reasonPtr)
	if err != nil {
		return 0, fmt.Errorf("Debit: %w", err)
	}

	logging.FromContext(ctx).Info("account debited", "user_id", userID, "amount", amount)
	return newBalance, nil
}

func (s *AdminFundsService) adjust(ctx context.Context, userID uuid.UUID, delta int64, txType domain.TransactionType, reason *string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("adjust: begin tx: %w", err)
	}
	defer tx.Rollback()

	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return 0, fmt.Errorf("adjust: %w", asUserNotFound(err))
	}

	newBalance := user.Balance + delta
	if newBalance < 0 {
		return 0, fmt.Errorf("adjust: %w", domain.ErrInsufficientFunds)
	}

	if err := s.users.UpdateBalance(ctx, tx, user.ID, newBalance, user.Version+1); err != nil {
		return 0, fmt.Errorf("adjust: %w", err)
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}

	now := time.Now().UTC()
	entry := &domain.Transaction{
		ID:        uuid.New(),
		UserID:    user.ID,
		Amount:    amount,
		Type:      txType,
		Status:    domain.TransactionStatusCompleted,
		Reason:    reason,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.transactions.Create(ctx, tx, entry); err != nil {
		return 0, fmt.Errorf("adjust: create entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("adjust: commit: %w", err)
	}
	return newBalance, nil
}
