package repository

import (
	"context"

	"giglink/internal/domain/entity"
)

type ConversationRepository interface {
	// FindOrCreate returns the unique conversation for the unordered pair
	// {userA, userB}, creating it with zero unread counters if none exists.
	// Safe under concurrent calls with the same pair in either order.
	FindOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)

	SetLastMessage(ctx context.Context, id string, last *entity.LastMessage) error
	// IncrementUnread and ResetUnread are atomic single-field counter
	// mutations keyed by participant ID. Participant authorization is the
	// caller's responsibility.
	IncrementUnread(ctx context.Context, id, userID string) error
	ResetUnread(ctx context.Context, id, userID string) error
}
