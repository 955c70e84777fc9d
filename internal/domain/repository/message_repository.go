package repository

import (
	"context"
	"time"

	"giglink/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error

	// ListByConversation fetches up to limit messages created strictly
	// before the cursor (all newest messages when before is nil), returned
	// oldest-to-newest within the page.
	ListByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entity.Message, error)

	// MarkConversationRead flips isRead/readAt on every unread message in
	// the conversation not sent by readerID and returns the count affected.
	// Idempotent: a second call returns 0.
	MarkConversationRead(ctx context.Context, conversationID, readerID string) (int, error)
}
