package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

const messageColumns = `id, sender_id, receiver_id, body, from_admin, created_at`

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, body, from_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.SenderID, m.ReceiverID, m.Body, m.FromAdmin, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListForUser returns the user's whole mailbox, oldest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	return r.list(ctx, "ListForUser",
		`SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1 ORDER BY created_at`,
		userID,
	)
}

// ListBetween returns the thread between two users, oldest first.
func (r *MessageRepository) ListBetween(ctx context.Context, a, b uuid.UUID) ([]domain.Message, error) {
	return r.list(ctx, "ListBetween",
		`SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at`,
		a, b,
	)
}

// Conversations lists, for the admin inbox, each user that has written
// to the admin with their most recent message, newest first.
func (r *MessageRepository) Conversations(ctx context.Context, adminID uuid.UUID) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT ON (m.sender_id)
			m.sender_id, u.full_name, u.email, m.body, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.receiver_id = $1
		ORDER BY m.sender_id, m.created_at DESC`,
		adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("Conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.UserID, &c.FullName, &c.Email, &c.LastMessage, &c.LastUpdated); err != nil {
			return nil, fmt.Errorf("Conversations: scan: %w", err)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Conversations: rows: %w", err)
	}

	// DISTINCT ON gives one row per sender; order the result by recency.
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastUpdated.After(convs[j].LastUpdated)
	})
	return convs, nil
}

func (r *MessageRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.FromAdmin, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return msgs, nil
}
