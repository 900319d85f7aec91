package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

// SupportService is the support-chat mailbox: users write to an admin,
// admins browse conversations and reply.
type SupportService struct {
	messages messageRepo
}

func NewSupportService(messages messageRepo) *SupportService {
	return &SupportService{messages: messages}
}

func (s *SupportService) Send(ctx context.Context, senderID, receiverID uuid.UUID, body string, fromAdmin bool) (*domain.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("Send: %w", domain.ErrInvalidRequest)
	}

	m := &domain.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		FromAdmin:  fromAdmin,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("Send: %w", err)
	}
	return m, nil
}

func (s *SupportService) Mailbox(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Mailbox: %w", err)
	}
	return msgs, nil
}

func (s *SupportService) Thread(ctx context.Context, adminID, userID uuid.UUID) ([]domain.Message, error) {
	msgs, err := s.messages.ListBetween(ctx, adminID, userID)
	if err != nil {
		return nil, fmt.Errorf("Thread: %w", err)
	}
	return msgs, nil
}

func (s *SupportService) Conversations(ctx context.Context, adminID uuid.UUID) ([]domain.Conversation, error) {
	convs, err := s.messages.Conversations(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("Conversations: %w", err)
	}
	return convs, nil
}
