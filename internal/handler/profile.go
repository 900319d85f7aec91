package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
	"github.com/kelechi-obi/flyzone-backend/internal/service"
)

type profileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*service.Profile, error)
}

type profileUserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate, newPIN string) (*domain.User, error)
	SetTransactionCode(ctx context.Context, userID uuid.UUID, code string, expiresAt *time.Time, description string) error
}

type ProfileHandler struct {
	profiles profileService
	users    profileUserService
}

func NewProfileHandler(profiles profileService, users profileUserService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users}
}

type monthTotalsDTO struct {
	Deposits  int64 `json:"deposits"`
	Transfers int64 `json:"transfers"`
}

type profileDTO struct {
	User         userDTO        `json:"user"`
	CurrentMonth monthTotalsDTO `json:"currentMonth"`
	LastMonth    monthTotalsDTO `json:"lastMonth"`
	Increase     struct {
		Deposits  string `json:"deposits"`
		Transfers string `json:"transfers"`
	} `json:"increase"`
}

// Me returns the caller's account plus month-over-month deposit and
// transfer statistics for the dashboard.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dto := profileDTO{
		User:         toUserDTO(profile.User),
		CurrentMonth: monthTotalsDTO{Deposits: profile.CurrentMonth.Deposits, Transfers: profile.CurrentMonth.Transfers},
		LastMonth:    monthTotalsDTO{Deposits: profile.LastMonth.Deposits, Transfers: profile.LastMonth.Transfers},
	}
	dto.Increase.Deposits = profile.Increase.Deposits
	dto.Increase.Transfers = profile.Increase.Transfers

	RespondSuccess(w, http.StatusOK, dto)
}

type updateProfileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
	Image    *string `json:"image"`
	PIN      string  `json:"pin"`
}

func (r updateProfileRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Email != nil {
		if _, err := mail.ParseAddress(*r.Email); err != nil {
			errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
		}
	}
	if r.FullName != nil && *r.FullName == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "cannot be empty"})
	}
	if r.PIN != "" && len(r.PIN) < 4 {
		errs = append(errs, FieldError{Field: "pin", Message: "must be at least 4 digits"})
	}
	return errs
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Image:    req.Image,
	}, req.PIN)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

type transactionCodeRequest struct {
	Code        string     `json:"code"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	Description string     `json:"description"`
}

func (r transactionCodeRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Code == "" {
		errs = append(errs, FieldError{Field: "code", Message: "required"})
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(time.Now()) {
		errs = append(errs, FieldError{Field: "expiresAt", Message: "must be in the future"})
	}
	return errs
}

func (h *ProfileHandler) SetTransactionCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req transactionCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if err := h.users.SetTransactionCode(r.Context(), userID, req.Code, req.ExpiresAt, req.Description); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "Transaction code created"})
}
