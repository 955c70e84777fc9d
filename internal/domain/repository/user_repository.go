package repository

import (
	"context"
	"time"

	"giglink/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// SetPresence records the online flag and last-seen timestamp. Called by
	// the connection registry on first attach and last detach.
	SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error
}
