package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

type ledgerService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	ledger ledgerService
}

func NewTransactionHandler(ledger ledgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// List returns the caller's own ledger entries, newest first, optionally
// filtered by ?type=.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	typeFilter := domain.TransactionType(r.URL.Query().Get("type"))
	if typeFilter != "" && !typeFilter.IsValid() {
		RespondValidationError(w, []FieldError{{Field: "type", Message: "must be Deposit, Withdrawal, or Transfer"}})
		return
	}

	entries, err := h.ledger.ListForUser(r.Context(), userID, typeFilter)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(entries))
}
