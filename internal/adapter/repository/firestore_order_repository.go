package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"giglink/internal/domain/entity"
	"giglink/internal/domain/repository"
	"giglink/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.UpdatedAt = time.Now()

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}

	return &order, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	order.UpdatedAt = time.Now()

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to update order", err)
	}

	return nil
}

// ListByUserID returns orders where the user is either side of the deal.
// Firestore has no OR queries on different fields, so the two sides are
// fetched separately and merged newest-first.
func (r *firestoreOrderRepository) ListByUserID(ctx context.Context, userID, orderStatus string) ([]*entity.Order, error) {
	asClient, err := r.listByField(ctx, "clientId", userID, orderStatus)
	if err != nil {
		return nil, err
	}
	asFreelancer, err := r.listByField(ctx, "freelancerId", userID, orderStatus)
	if err != nil {
		return nil, err
	}

	orders := append(asClient, asFreelancer...)
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (r *firestoreOrderRepository) listByField(ctx context.Context, field, value, orderStatus string) ([]*entity.Order, error) {
	query := r.client.Collection("orders").Where(field, "==", value)
	if orderStatus != "" {
		query = query.Where("status", "==", orderStatus)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var orders []*entity.Order

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate orders", err)
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			continue // Skip malformed documents
		}
		orders = append(orders, &order)
	}

	return orders, nil
}
