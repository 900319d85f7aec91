package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
)

type transferService interface {
	CreateTransfer(ctx context.Context, req service.TransferRequest) (*domain.Transaction, error)
	CreateTransferWithCode(ctx context.Context, req service.TransferRequest) (*domain.Transaction, error)
}

type TransferHandler struct {
	transfers transferService
}

func NewTransferHandler(transfers transferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type transferRequest struct {
	Amount        int64  `json:"amount"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	IBAN          string `json:"iban"`
	SwiftCode     string `json:"swiftCode"`

	// Only the code-guarded endpoint reads these.
	Code string `json:"code"`
	PIN  string `json:"pin"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.AccountNumber == "" {
		errs = append(errs, FieldError{Field: "accountNumber", Message: "required"})
	}
	if r.BankName == "" {
		errs = append(errs, FieldError{Field: "bankName", Message: "required"})
	}
	return errs
}

func (r transferRequest) ValidateWithCode() []FieldError {
	errs := r.Validate()
	if r.Code == "" {
		errs = append(errs, FieldError{Field: "code", Message: "required"})
	}
	return errs
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, err := h.transfers.CreateTransfer(r.Context(), toServiceTransfer(userID, req))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

// CreateWithCode is the guarded variant: the caller must present a valid
// transaction code and transfer pin before any funds move.
func (h *TransferHandler) CreateWithCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.ValidateWithCode(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, err := h.transfers.CreateTransferWithCode(r.Context(), toServiceTransfer(userID, req))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

func toServiceTransfer(userID uuid.UUID, req transferRequest) service.TransferRequest {
	return service.TransferRequest{
		UserID: userID,
		Amount: req.Amount,
		Bank: service.BankDetails{
			AccountNumber: req.AccountNumber,
			BankName:      req.BankName,
			AccountName:   req.AccountName,
			IBAN:          req.IBAN,
			SwiftCode:     req.SwiftCode,
		},
		Code: req.Code,
		PIN:  req.PIN,
	}
}
