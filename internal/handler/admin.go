package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

type settlementService interface {
	Approve(ctx context.Context, transactionID uuid.UUID) (*domain.Transaction, error)
	Decline(ctx context.Context, transactionID uuid.UUID, reason string) (*domain.Transaction, error)
}

type adminFundsService interface {
	Fund(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int64, reason string) (int64, error)
}

type adminUserService interface {
	ResetPIN(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	AdminUpdate(ctx context.Context, userID uuid.UUID, upd domain.AdminUserUpdate) (*domain.User, error)
	ListUsers(ctx context.Context, search string) ([]domain.User, error)
}

type adminLedgerService interface {
	ListAll(ctx context.Context, typeFilter domain.TransactionType) ([]domain.Transaction, error)
}

type AdminHandler struct {
	settlements settlementService
	funds       adminFundsService
	users       adminUserService
	ledger      adminLedgerService
}

func NewAdminHandler(settlements settlementService, funds adminFundsService, users adminUserService, ledger adminLedgerService) *AdminHandler {
	return &AdminHandler{
		settlements: settlements,
		funds:       funds,
		users:       users,
		ledger:      ledger,
	}
}

func (h *AdminHandler) ApproveTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrTransactionNotFound, nil)
		return
	}

	t, err := h.settlements.Approve(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTO(t))
}

type declineRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) DeclineTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrTransactionNotFound, nil)
		return
	}

	var req declineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	t, err := h.settlements.Decline(r.Context(), id, req.Reason)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTO(t))
}

type fundRequest struct {
	Amount int64 `json:"amount"`
}

type debitRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type balanceResponse struct {
	UserID  uuid.UUID `json:"userId"`
	Balance int64     `json:"balance"`
}

func (h *AdminHandler) FundUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrUserNotFound, nil)
		return
	}

	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Amount <= 0 {
		RespondValidationError(w, []FieldError{{Field: "amount", Message: "must be greater than 0"}})
		return
	}

	balance, err := h.funds.Fund(r.Context(), id, req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceResponse{UserID: id, Balance: balance})
}

func (h *AdminHandler) DebitUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrUserNotFound, nil)
		return
	}

	var req debitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Amount <= 0 {
		RespondValidationError(w, []FieldError{{Field: "amount", Message: "must be greater than 0"}})
		return
	}

	balance, err := h.funds.Debit(r.Context(), id, req.Amount, req.Reason)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceResponse{UserID: id, Balance: balance})
}

func (h *AdminHandler) ResetPIN(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrUserNotFound, nil)
		return
	}

	user, err := h.users.ResetPIN(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

// adminPatchRequest mirrors domain.AdminUserUpdate field for field.
// Decoding into pointers distinguishes "absent" from "set to empty";
// fields outside this struct simply never reach the update.
type adminPatchRequest struct {
	FullName      *string `json:"fullName"`
	Image         *string `json:"image"`
	Email         *string `json:"email"`
	Mobile        *string `json:"mobile"`
	Address       *string `json:"address"`
	Nationality   *string `json:"nationality"`
	DOB           *string `json:"dob"`
	Gender        *string `json:"gender"`
	Role          *string `json:"role"`
	AccountNumber *string `json:"accountNumber"`
	Status        *string `json:"status"`
}

func (r adminPatchRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Gender != nil && *r.Gender != string(domain.GenderMale) && *r.Gender != string(domain.GenderFemale) {
		errs = append(errs, FieldError{Field: "gender", Message: "must be male or female"})
	}
	if r.Role != nil && *r.Role != string(domain.RoleUser) && *r.Role != string(domain.RoleAdmin) {
		errs = append(errs, FieldError{Field: "role", Message: "must be User or Admin"})
	}
	if r.Status != nil && *r.Status != string(domain.UserStatusPending) && *r.Status != string(domain.UserStatusActive) {
		errs = append(errs, FieldError{Field: "status", Message: "must be Pending or Active"})
	}
	if r.Email != nil && *r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "cannot be empty"})
	}
	return errs
}

// restrictedPatchFields can never be changed through the admin patch,
// whatever the caller's role. Secrets have dedicated endpoints and the
// balance only moves through fund, debit, and settlement.
var restrictedPatchFields = []string{"password", "balance", "pin", "transactionCode", "version"}

func (h *AdminHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrUserNotFound, nil)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	for _, field := range restrictedPatchFields {
		if _, ok := raw[field]; ok {
			RespondDomainError(w, domain.ErrRestrictedField)
			return
		}
	}

	var req adminPatchRequest
	if err := remarshal(raw, &req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	upd := domain.AdminUserUpdate{
		FullName:      req.FullName,
		Image:         req.Image,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Address:       req.Address,
		Nationality:   req.Nationality,
		DOB:           req.DOB,
		AccountNumber: req.AccountNumber,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		upd.Gender = &g
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		upd.Status = &status
	}

	user, err := h.users.AdminUpdate(r.Context(), id, upd)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

func remarshal(raw map[string]json.RawMessage, dst any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]userDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	typeFilter := domain.TransactionType(r.URL.Query().Get("type"))
	if typeFilter != "" && !typeFilter.IsValid() {
		RespondValidationError(w, []FieldError{{Field: "type", Message: "must be Deposit, Withdrawal, or Transfer"}})
		return
	}

	entries, err := h.ledger.ListAll(r.Context(), typeFilter)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(entries))
}
