package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mailfleet/mailfleet/internal/domain"
)

type conversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a new PostgreSQL repository for conversations
func NewConversationRepository(db *sql.DB) domain.ConversationRepository {
	return &conversationRepository{db: db}
}

// FindOrCreate returns the conversation between a user and a contact
// address, creating it when absent, and bumps last_message_at. The
// upsert keys on (user_id, contact_email), so concurrent replies land
// in the same conversation.
func (r *conversationRepository) FindOrCreate(ctx context.Context, userID, contactEmail string, at time.Time) (*domain.Conversation, error) {
	query := `
		INSERT INTO conversations (id, user_id, contact_email, last_message_at, created_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, contact_email)
		DO UPDATE SET last_message_at = GREATEST(conversations.last_message_at, EXCLUDED.last_message_at)
		RETURNING id, user_id, contact_email, last_message_at, created_at`

	var conv domain.Conversation
	err := r.db.QueryRowContext(ctx, query, uuid.New().String(), userID, contactEmail, at).Scan(
		&conv.ID, &conv.UserID, &conv.ContactEmail, &conv.LastMessageAt, &conv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation upsert returned no row")
		}
		return nil, fmt.Errorf("failed to find or create conversation: %w", err)
	}
	return &conv, nil
}
