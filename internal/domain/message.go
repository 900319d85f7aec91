package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one support-chat mailbox entry between a user and an admin.
type Message struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Body       string
	FromAdmin  bool
	CreatedAt  time.Time
}

// Conversation summarizes the latest message from one user, for the
// admin inbox listing.
type Conversation struct {
	UserID      uuid.UUID
	FullName    string
	Email       string
	LastMessage string
	LastUpdated time.Time
}
