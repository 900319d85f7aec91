package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
)

// SettlementService moves Pending ledger entries to their terminal
// state. Pending -> Completed and Pending -> Declined are the only
// transitions; the entry row is locked for the whole settlement so two
// concurrent admin calls cannot both win.
type SettlementService struct {
	users        userRepo
	transactions transactionRepo
	db           txBeginner

	// recreditDeclinedTransfers compensates the sender's pre-debited
	// balance when a Transfer is declined. The legacy system never
	// re-credited; default stays false for compatibility.
	recreditDeclinedTransfers bool
}

func NewSettlementService(users userRepo, transactions transactionRepo, db txBeginner, recreditDeclinedTransfers bool) *SettlementService {
	return &SettlementService{
		users:                     users,
		transactions:              transactions,
		db:                        db,
		recreditDeclinedTransfers: recreditDeclinedTransfers,
	}
}

// Approve completes a Pending entry. Deposits credit the owner's
// balance here, because deposit money only moves at approval. Transfers
// were already debited at creation; approval just records that the
// external payout went out.
func (s *SettlementService) Approve(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Approve: begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err := s.transactions.GetForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("Approve: %w", asTransactionNotFound(err))
	}
	if entry.Status != domain.TransactionStatusPending {
		return nil, fmt.Errorf("Approve: %w", domain.ErrNotPending)
	}

	if entry.Type == domain.TransactionTypeDeposit {
		user, err := s.users.GetForUpdate(ctx, tx, entry.UserID)
		if err != nil {
			return nil, fmt.Errorf("Approve: owner: %w", asUserNotFound(err))
		}
		if err := s.users.UpdateBalance(ctx, tx, user.ID, user.Balance+entry.Amount, user.Version+1); err != nil {
			return nil, fmt.Errorf("Approve: credit: %w", err)
		}
	}

	if err := s.transactions.Settle(ctx, tx, entry.ID, domain.TransactionStatusCompleted, nil); err != nil {
		return nil, fmt.Errorf("Approve: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Approve: commit: %w", err)
	}

	entry.Status = domain.TransactionStatusCompleted
	logging.FromContext(ctx).Info("transaction approved",
		"transaction_id", entry.ID,
		"type", entry.Type,
		"amount", entry.Amount,
	)
	return entry, nil
}

// Decline marks a Pending entry Declined with the given reason.
func (s *SettlementService) Decline(ctx context.Context, transactionID uuid.UUID, reason string) (*domain.Transaction, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("Decline: %w", domain.ErrReasonRequired)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Decline: begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err := s.transactions.GetForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("Decline: %w", asTransactionNotFound(err))
	}
	if entry.Status != domain.TransactionStatusPending {
		return nil, fmt.Errorf("Decline: %w", domain.ErrNotPending)
	}

	if s.recreditDeclinedTransfers && entry.Type == domain.TransactionTypeTransfer {
		user, err := s.users.GetForUpdate(ctx, tx, entry.UserID)
		if err != nil {
			return nil, fmt.Errorf("Decline: owner: %w", err)
		}
		if err := s.users.UpdateBalance(ctx, tx, user.ID, user.Balance+entry.Amount, user.Version+1); err != nil {
			return nil, fmt.Errorf("Decline: recredit: %w", err)
		}
	}

	if err := s.transactions.Settle(ctx, tx, entry.ID, domain.TransactionStatusDeclined, &reason); err != nil {
		return nil, fmt.Errorf("Decline: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Decline: commit: %w", err)
	}

	entry.Status = domain.TransactionStatusDeclined
	entry.Reason = &reason
	logging.FromContext(ctx).Info("transaction declined",
		"transaction_id", entry.ID,
		"type", entry.Type,
		"reason", reason,
	)
	return entry, nil
}
