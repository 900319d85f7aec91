package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

// LedgerService serves the transaction listings.
type LedgerService struct {
	transactions transactionRepo
}

func NewLedgerService(transactions transactionRepo) *LedgerService {
	return &LedgerService{transactions: transactions}
}

func (s *LedgerService) ListForUser(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]domain.Transaction, error) {
	entries, err := s.transactions.ListByUser(ctx, userID, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("ListForUser: %w", err)
	}
	return entries, nil
}

func (s *LedgerService) ListAll(ctx context.Context, typeFilter domain.TransactionType) ([]domain.Transaction, error) {
	entries, err := s.transactions.ListAll(ctx, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return entries, nil
}
