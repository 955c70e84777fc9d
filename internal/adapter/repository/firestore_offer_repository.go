package repository

import (
	"context"
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

type firestoreOfferRepository struct {
	client *firestore.Client
}

func NewFirestoreOfferRepository(client *firestore.Client) repository.OfferRepository {
	return &firestoreOfferRepository{
		client: client,
	}
}

func (r *firestoreOfferRepository) Create(ctx context.Context, offer *entity.CustomOffer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	offer.UpdatedAt = time.Now()

	_, err := r.client.Collection("custom_offers").Doc(offer.ID).Set(ctx, offer)
	if err != nil {
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) GetByID(ctx context.Context, id string) (*entity.CustomOffer, error) {
	doc, err := r.client.Collection("custom_offers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	var offer entity.CustomOffer
	if err := doc.DataTo(&offer); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}

	return &offer, nil
}

func (r *firestoreOfferRepository) Update(ctx context.Context, offer *entity.CustomOffer) error {
	offer.UpdatedAt = time.Now()

	_, err := r.client.Collection("custom_offers").Doc(offer.ID).Set(ctx, offer)
	if err != nil {
		return errors.Internal("Failed to update offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) ListByFreelancerID(ctx context.Context, freelancerID, status string) ([]*entity.CustomOffer, error) {
	return r.list(ctx, "freelancerId", freelancerID, status)
}

func (r *firestoreOfferRepository) ListByClientID(ctx context.Context, clientID, status string) ([]*entity.CustomOffer, error) {
	return r.list(ctx, "clientId", clientID, status)
}

func (r *firestoreOfferRepository) ListByConversationID(ctx context.Context, conversationID, status string) ([]*entity.CustomOffer, error) {
	return r.list(ctx, "conversationId", conversationID, status)
}

// list serves the (field, status) compound indexes.
func (r *firestoreOfferRepository) list(ctx context.Context, field, value, offerStatus string) ([]*entity.CustomOffer, error) {
	query := r.client.Collection("custom_offers").Where(field, "==", value)
	if offerStatus != "" {
		query = query.Where("status", "==", offerStatus)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var offers []*entity.CustomOffer

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate offers", err)
		}

		var offer entity.CustomOffer
		if err := doc.DataTo(&offer); err != nil {
			continue // Skip malformed documents
		}
		offers = append(offers, &offer)
	}

	return offers, nil
}
