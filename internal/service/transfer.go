package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/logging"
)

type BankDetails struct {
	AccountNumber string
	BankName      string
	AccountName   string
	IBAN          string
	SwiftCode     string
}

type TransferRequest struct {
	UserID uuid.UUID
	Amount int64
	Bank   BankDetails

	// Secrets accompany /transfer-code requests only.
	Code string
	PIN  string
}

type TransferService struct {
	users        userRepo
	transactions transactionRepo
	db           txBeginner
}

func NewTransferService(users userRepo, transactions transactionRepo, db txBeginner) *TransferService {
	return &TransferService{users: users, transactions: transactions, db: db}
}

// CreateTransfer debits the sender and records a Pending Transfer entry
// awaiting admin settlement. The debit happens now, not at approval, so
// the funds stay reserved while the external payout is reviewed.
func (s *TransferService) CreateTransfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("CreateTransfer: %w", domain.ErrInvalidAmount)
	}

	sender, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("CreateTransfer: %w", asUserNotFound(err))
	}

	if sender.Balance < req.Amount {
		return nil, fmt.Errorf("CreateTransfer: %w", domain.ErrInsufficientFunds)
	}

	t, err := s.executeTransfer(ctx, sender.ID, req)
	if err != nil {
		return nil, fmt.Errorf("CreateTransfer: %w", err)
	}

	logging.FromContext(ctx).Info("transfer initiated",
		"transaction_id", t.ID,
		"user_id", sender.ID,
		"amount", req.Amount,
	)
	return t, nil
}

// CreateTransferWithCode is CreateTransfer guarded by the transaction
// code and transfer PIN. The checks run in a fixed order and each
// failure is reported distinctly: expiry before code value, PIN
// configured before PIN supplied before PIN value.
func (s *TransferService) CreateTransferWithCode(ctx context.Context, req TransferRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("CreateTransferWithCode: %w", domain.ErrInvalidAmount)
	}

	sender, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("CreateTransferWithCode: %w", asUserNotFound(err))
	}

	if sender.Balance < req.Amount {
		return nil, fmt.Errorf("CreateTransferWithCode: %w", domain.ErrInsufficientFunds)
	}

	if err := verifyTransferAuth(sender, req.Code, req.PIN, time.Now()); err != nil {
		return nil, fmt.Errorf("CreateTransferWithCode: %w", err)
	}

	t, err := s.executeTransfer(ctx, sender.ID, req)
	if err != nil {
		return nil, fmt.Errorf("CreateTransferWithCode: %w", err)
	}

	logging.FromContext(ctx).Info("authorized transfer initiated",
		"transaction_id", t.ID,
		"user_id", sender.ID,
		"amount", req.Amount,
	)
	return t, nil
}

// verifyTransferAuth checks the transaction code and PIN against the
// sender's stored hashes. bcrypt comparison is not timing-sensitive and
// deliberately expensive; it runs on the request goroutine.
func verifyTransferAuth(sender *domain.User, code, pin string, now time.Time) error {
	if !sender.HasTransactionCode() {
		return domain.ErrCodeNotSet
	}
	if sender.TransactionCode.Expired(now) {
		return domain.ErrCodeExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(sender.TransactionCode.Hash), []byte(code)); err != nil {
		return domain.ErrCodeMismatch
	}

	if !sender.HasPIN() {
		return domain.ErrPINNotSet
	}
	if pin == "" {
		return domain.ErrPINRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*sender.PINHash), []byte(pin)); err != nil {
		return domain.ErrPINMismatch
	}
	return nil
}

// executeTransfer debits the sender and inserts the Pending entry in
// one transaction: either both happen or neither does.
func (s *TransferService) executeTransfer(ctx context.Context, senderID uuid.UUID, req TransferRequest) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("executeTransfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	sender, err := s.users.GetForUpdate(ctx, tx, senderID)
	if err != nil {
		return nil, fmt.Errorf("executeTransfer: %w", err)
	}

	// Re-check under the row lock; the first read raced other writers.
	if sender.Balance < req.Amount {
		return nil, fmt.Errorf("executeTransfer: %w", domain.ErrInsufficientFunds)
	}

	if err := s.users.UpdateBalance(ctx, tx, sender.ID, sender.Balance-req.Amount, sender.Version+1); err != nil {
		return nil, fmt.Errorf("executeTransfer: debit: %w", err)
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        sender.ID,
		Amount:        req.Amount,
		Type:          domain.TransactionTypeTransfer,
		Status:        domain.TransactionStatusPending,
		AccountNumber: optional(req.Bank.AccountNumber),
		BankName:      optional(req.Bank.BankName),
		AccountName:   optional(req.Bank.AccountName),
		IBAN:          optional(req.Bank.IBAN),
		SwiftCode:     optional(req.Bank.SwiftCode),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.transactions.Create(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("executeTransfer: create entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("executeTransfer: commit: %w", err)
	}
	return t, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
