package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

type supportService interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, body string, fromAdmin bool) (*domain.Message, error)
	Mailbox(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	Thread(ctx context.Context, adminID, userID uuid.UUID) ([]domain.Message, error)
	Conversations(ctx context.Context, adminID uuid.UUID) ([]domain.Conversation, error)
}

type SupportHandler struct {
	support supportService
}

func NewSupportHandler(support supportService) *SupportHandler {
	return &SupportHandler{support: support}
}

type sendMessageRequest struct {
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

func (r sendMessageRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Receiver == "" {
		errs = append(errs, FieldError{Field: "receiver", Message: "required"})
	} else if _, err := uuid.Parse(r.Receiver); err != nil {
		errs = append(errs, FieldError{Field: "receiver", Message: "must be a valid id"})
	}
	if r.Message == "" {
		errs = append(errs, FieldError{Field: "message", Message: "required"})
	}
	return errs
}

func (h *SupportHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	receiverID, _ := uuid.Parse(req.Receiver)
	fromAdmin := identity.Role == domain.RoleAdmin

	m, err := h.support.Send(r.Context(), identity.UserID, receiverID, req.Message, fromAdmin)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toMessageDTO(m))
}

// Mailbox lists every message the caller sent or received, oldest first.
func (h *SupportHandler) Mailbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	msgs, err := h.support.Mailbox(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toMessageDTOs(msgs))
}

type conversationDTO struct {
	UserID      uuid.UUID `json:"userId"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	LastMessage string    `json:"lastMessage"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Conversations is the admin inbox: one row per user, latest message
// first.
func (h *SupportHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	adminID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	convs, err := h.support.Conversations(r.Context(), adminID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]conversationDTO, len(convs))
	for i, c := range convs {
		dtos[i] = conversationDTO{
			UserID:      c.UserID,
			FullName:    c.FullName,
			Email:       c.Email,
			LastMessage: c.LastMessage,
			LastUpdated: c.LastUpdated,
		}
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

// Thread returns the full back-and-forth between the calling admin and
// one user.
func (h *SupportHandler) Thread(w http.ResponseWriter, r *http.Request) {
	adminID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		RespondAppError(w, ErrUserNotFound, nil)
		return
	}

	msgs, err := h.support.Thread(r.Context(), adminID, userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toMessageDTOs(msgs))
}

func toMessageDTOs(msgs []domain.Message) []messageDTO {
	dtos := make([]messageDTO, len(msgs))
	for i := range msgs {
		dtos[i] = toMessageDTO(&msgs[i])
	}
	return dtos
}
