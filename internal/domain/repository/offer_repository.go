package repository

import (
	"context"

	"giglink/internal/domain/entity"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.CustomOffer) error
	GetByID(ctx context.Context, id string) (*entity.CustomOffer, error)
	Update(ctx context.Context, offer *entity.CustomOffer) error

	// List methods filter by status when status is non-empty.
	ListByFreelancerID(ctx context.Context, freelancerID, status string) ([]*entity.CustomOffer, error)
	ListByClientID(ctx context.Context, clientID, status string) ([]*entity.CustomOffer, error)
	ListByConversationID(ctx context.Context, conversationID, status string) ([]*entity.CustomOffer, error)
}
