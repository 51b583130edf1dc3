package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_conversation_repository.go -package mocks github.com/mailfleet/mailfleet/internal/domain ConversationRepository

// Conversation groups reply-class events between a user's sender address
// and a contact address. Created lazily on the first reply.
type Conversation struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ContactEmail  string    `json:"contact_email"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// ConversationRepository defines methods for conversation persistence
type ConversationRepository interface {
	// FindOrCreate returns the conversation between a user and a contact
	// address, creating it when absent, and bumps last_message_at
	FindOrCreate(ctx context.Context, userID, contactEmail string, at time.Time) (*Conversation, error)
}
