package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	TransactionTypeTransfer   TransactionType = "Transfer"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusDeclined  TransactionStatus = "Declined"
)

type DepositMethod string

const (
	DepositMethodBank   DepositMethod = "bank"
	DepositMethodCrypto DepositMethod = "crypto"
)

func (m DepositMethod) IsValid() bool {
	return m == DepositMethodBank || m == DepositMethodCrypto
}

// Transaction is one ledger entry: a money-movement request and its
// settlement outcome. Completed and Declined are terminal; every status
// change goes through a conditional update on the Pending state.
type Transaction struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Amount int64
	Type   TransactionType
	Method *DepositMethod
	Status TransactionStatus

	// Destination bank details, set for Transfer entries only.
	AccountNumber *string
	BankName      *string
	AccountName   *string
	IBAN          *string
	SwiftCode     *string

	Receipt   *string
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
