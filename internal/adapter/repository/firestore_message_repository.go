package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"giglink/internal/domain/entity"
	"giglink/internal/domain/repository"
	"giglink/pkg/errors"
)

// Messages live in a top-level collection with a compound index on
// (conversationId, createdAt) to serve the history cursor query.
type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) ListByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entity.Message, error) {
	query := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		OrderBy("createdAt", firestore.Desc)

	if before != nil {
		query = query.Where("createdAt", "<", *before)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for conversation %s: %v", conversationID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	// Fetched newest-first; reverse so a page reads oldest-to-newest.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *firestoreMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int, error) {
	query := r.client.Collection("messages").
		Where("conversationId", "==", conversationID).
		Where("isRead", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query unread messages", err)
	}

	now := time.Now()
	count := 0

	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue // Skip malformed documents
		}
		if message.SenderID == readerID {
			continue
		}

		_, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "isRead", Value: true},
			{Path: "readAt", Value: now},
		})
		if err != nil {
			log.Printf("MarkConversationRead: failed to update message %s: %v", message.ID, err)
			continue
		}
		count++
	}

	return count, nil
}
