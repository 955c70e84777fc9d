package repository

import (
	"context"

	"giglink/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	ListByUserID(ctx context.Context, userID, status string) ([]*entity.Order, error)
}
