package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
)

type depositService interface {
	CreateDeposit(ctx context.Context, req service.DepositRequest) (*domain.Transaction, error)
}

type DepositHandler struct {
	deposits depositService
}

func NewDepositHandler(deposits depositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

type depositRequest struct {
	Amount  int64  `json:"amount"`
	Method  string `json:"method"`
	Receipt string `json:"receipt"`
}

func (r depositRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.Method != "" && !domain.DepositMethod(r.Method).IsValid() {
		errs = append(errs, FieldError{Field: "method", Message: "must be bank or crypto"})
	}
	return errs
}

func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, err := h.deposits.CreateDeposit(r.Context(), service.DepositRequest{
		UserID:  userID,
		Amount:  req.Amount,
		Method:  domain.DepositMethod(req.Method),
		Receipt: req.Receipt,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}
