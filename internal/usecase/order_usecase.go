package usecase

import (
	"context"
	"fmt"
	"time"

	"giglink/internal/domain/entity"
	"giglink/internal/domain/repository"
	"giglink/pkg/errors"
	"giglink/pkg/logger"
)

// OrderUseCase handles the life of an order after an offer converts:
// delivery, revision requests, completion.
type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	chat        *ChatUseCase
	broadcaster Broadcaster
}

func NewOrderUseCase(orderRepo repository.OrderRepository, chat *ChatUseCase, broadcaster Broadcaster) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		chat:        chat,
		broadcaster: broadcaster,
	}
}

// GetOrder loads an order for one of its two parties.
func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != order.ClientID && userID != order.FreelancerID {
		return nil, errors.NotFound("Order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, userID, status string) ([]*entity.Order, error) {
	return uc.orderRepo.ListByUserID(ctx, userID, status)
}

// Deliver records the freelancer's delivery. Allowed from in_progress and
// from revision, so a revised delivery walks the same path.
func (uc *OrderUseCase) Deliver(ctx context.Context, freelancerID, orderID string, files []entity.DeliveryFile) (*entity.Order, error) {
	order, err := uc.GetOrder(ctx, freelancerID, orderID)
	if err != nil {
		return nil, err
	}
	if freelancerID != order.FreelancerID {
		return nil, errors.Forbidden("Only the freelancer can deliver this order", nil)
	}
	if order.Status != entity.OrderStatusInProgress && order.Status != entity.OrderStatusRevision {
		return nil, errors.InvalidTransition(fmt.Sprintf("cannot deliver an order that is %s", order.Status))
	}

	now := time.Now()
	for i := range files {
		if files[i].UploadedAt.IsZero() {
			files[i].UploadedAt = now
		}
	}
	order.Status = entity.OrderStatusDelivered
	order.DeliveredAt = &now
	order.DeliveryFiles = append(order.DeliveryFiles, files...)

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.ConversationID != "" {
		content := fmt.Sprintf("Order #%s delivered", order.OrderNumber)
		if _, err := uc.chat.PostSystemMessage(ctx, order.ConversationID, freelancerID, content); err != nil {
			logger.Error("Order: failed to post delivery message for %s: %v", order.ID, err)
		}
	}

	data := map[string]interface{}{
		"order_id":       order.ID,
		"delivery_files": order.DeliveryFiles,
	}
	uc.broadcaster.SendToUser(order.ClientID, EventOrderDelivered, data)
	uc.broadcaster.SendToUser(order.FreelancerID, EventOrderDelivered, data)

	return order, nil
}

// RequestRevision sends a delivered order back to the freelancer, spending
// one of the order's revision allowances.
func (uc *OrderUseCase) RequestRevision(ctx context.Context, clientID, orderID, reason string) (*entity.Order, error) {
	order, err := uc.GetOrder(ctx, clientID, orderID)
	if err != nil {
		return nil, err
	}
	if clientID != order.ClientID {
		return nil, errors.Forbidden("Only the client can request a revision", nil)
	}
	if order.Status != entity.OrderStatusDelivered {
		return nil, errors.InvalidTransition(fmt.Sprintf("cannot request a revision on an order that is %s", order.Status))
	}
	if order.RevisionsRemaining() == 0 {
		return nil, errors.BadRequest("No revisions remaining on this order", nil)
	}
	if reason == "" {
		return nil, errors.BadRequest("Revision reason is required", nil)
	}

	order.Status = entity.OrderStatusRevision
	order.RevisionRequests = append(order.RevisionRequests, entity.RevisionRequest{
		Reason:      reason,
		RequestedAt: time.Now(),
	})

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.ConversationID != "" {
		content := fmt.Sprintf("Revision requested on order #%s", order.OrderNumber)
		if _, err := uc.chat.PostSystemMessage(ctx, order.ConversationID, clientID, content); err != nil {
			logger.Error("Order: failed to post revision message for %s: %v", order.ID, err)
		}
	}

	data := map[string]interface{}{
		"order_id": order.ID,
		"reason":   reason,
	}
	uc.broadcaster.SendToUser(order.FreelancerID, EventRevisionRequested, data)
	uc.broadcaster.SendToUser(order.ClientID, EventRevisionRequested, data)

	return order, nil
}

// Complete closes out a delivered order on the client's approval.
func (uc *OrderUseCase) Complete(ctx context.Context, clientID, orderID string) (*entity.Order, error) {
	order, err := uc.GetOrder(ctx, clientID, orderID)
	if err != nil {
		return nil, err
	}
	if clientID != order.ClientID {
		return nil, errors.Forbidden("Only the client can complete this order", nil)
	}
	if order.Status != entity.OrderStatusDelivered {
		return nil, errors.InvalidTransition(fmt.Sprintf("cannot complete an order that is %s", order.Status))
	}

	now := time.Now()
	order.Status = entity.OrderStatusCompleted
	order.CompletedAt = &now

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.ConversationID != "" {
		content := fmt.Sprintf("Order #%s completed", order.OrderNumber)
		if _, err := uc.chat.PostSystemMessage(ctx, order.ConversationID, clientID, content); err != nil {
			logger.Error("Order: failed to post completion message for %s: %v", order.ID, err)
		}
	}

	return order, nil
}
