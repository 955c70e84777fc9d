package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"giglink/internal/domain/entity"
	"giglink/internal/domain/repository"
	"giglink/internal/domain/service"
	"giglink/pkg/errors"
	"giglink/pkg/logger"
)

// OfferUseCase orchestrates the custom-offer lifecycle around the state
// machine: persistence, the offer card in the conversation, order
// creation on acceptance, and the pushes that follow.
type OfferUseCase struct {
	offerRepo        repository.OfferRepository
	orderRepo        repository.OrderRepository
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	engine           *service.OfferEngine
	chat             *ChatUseCase
	broadcaster      Broadcaster
}

func NewOfferUseCase(
	offerRepo repository.OfferRepository,
	orderRepo repository.OrderRepository,
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	engine *service.OfferEngine,
	chat *ChatUseCase,
	broadcaster Broadcaster,
) *OfferUseCase {
	return &OfferUseCase{
		offerRepo:        offerRepo,
		orderRepo:        orderRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		engine:           engine,
		chat:             chat,
		broadcaster:      broadcaster,
	}
}

// CreateOffer lets a freelancer propose terms inside a conversation they
// participate in. The counterparty becomes the offer's client. An offer
// card lands in the conversation so the client sees it in context.
func (uc *OfferUseCase) CreateOffer(ctx context.Context, freelancerID, conversationID string, terms service.OfferTerms) (*entity.CustomOffer, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(freelancerID) {
		return nil, errors.NotFound("Conversation", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	if !user.CanFreelance() {
		return nil, errors.Forbidden("Only freelancers can create custom offers", nil)
	}

	clientID := conversation.OtherParticipant(freelancerID)

	offer, err := uc.engine.NewOffer(freelancerID, clientID, conversationID, terms)
	if err != nil {
		return nil, err
	}
	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Custom offer: %s - $%.0f, %d day delivery", offer.Title, offer.Price, offer.DeliveryDays)
	if _, err := uc.chat.PostOfferMessage(ctx, conversationID, freelancerID, content, offer.ID); err != nil {
		logger.Error("Offer: failed to post offer card for %s: %v", offer.ID, err)
	}

	return offer, nil
}

// GetOffer loads an offer for one of its two parties. The returned status
// reads as expired when the deadline has passed on a pending offer; this
// presentation never touches the stored record.
func (uc *OfferUseCase) GetOffer(ctx context.Context, userID, offerID string) (*entity.CustomOffer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if userID != offer.FreelancerID && userID != offer.ClientID {
		return nil, errors.NotFound("Offer", nil)
	}

	uc.presentStatus(offer)
	return offer, nil
}

// AcceptOffer runs the whole acceptance flow: accept, persist, create the
// order, convert, announce. The order is durable before the offer reads
// converted, so a crash in between leaves an accepted offer with an order
// rather than a converted offer without one.
func (uc *OfferUseCase) AcceptOffer(ctx context.Context, clientID, offerID string) (*entity.Order, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if err := uc.engine.Accept(offer, clientID); err != nil {
		return nil, err
	}
	if err := uc.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	order := &entity.Order{
		OrderNumber:    newOrderNumber(),
		ClientID:       offer.ClientID,
		FreelancerID:   offer.FreelancerID,
		CustomOfferID:  offer.ID,
		ConversationID: offer.ConversationID,
		OrderType:      entity.OrderTypeCustom,
		Title:          offer.Title,
		Description:    offer.Description,
		Price:          offer.Price,
		DeliveryDays:   offer.DeliveryDays,
		Revisions:      offer.Revisions,
		Status:         entity.OrderStatusInProgress,
		CreatedAt:      time.Now(),
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := uc.engine.Convert(offer); err != nil {
		return nil, err
	}
	if err := uc.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Custom offer accepted! Order #%s created for $%.0f", order.OrderNumber, order.Price)
	if _, err := uc.chat.PostSystemMessage(ctx, offer.ConversationID, clientID, content); err != nil {
		logger.Error("Offer: failed to post acceptance message for %s: %v", offer.ID, err)
	}

	data := map[string]interface{}{
		"offer_id": offer.ID,
		"order_id": order.ID,
	}
	uc.broadcaster.SendToUser(offer.FreelancerID, EventOfferAccepted, data)
	uc.broadcaster.SendToUser(offer.ClientID, EventOfferAccepted, data)
	uc.broadcaster.SendToConversation(offer.ConversationID, EventOfferAccepted, data)

	return order, nil
}

// RejectOffer declines a pending offer with an optional reason. A stale
// pending offer can still be rejected; closing it out is just
// bookkeeping.
func (uc *OfferUseCase) RejectOffer(ctx context.Context, clientID, offerID, reason string) (*entity.CustomOffer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if err := uc.engine.Reject(offer, clientID, reason); err != nil {
		return nil, err
	}
	if err := uc.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Custom offer declined: %s", offer.Title)
	if offer.RejectionReason != "" {
		content += fmt.Sprintf(" (%s)", offer.RejectionReason)
	}
	if _, err := uc.chat.PostSystemMessage(ctx, offer.ConversationID, clientID, content); err != nil {
		logger.Error("Offer: failed to post rejection message for %s: %v", offer.ID, err)
	}

	data := map[string]interface{}{
		"offer_id": offer.ID,
		"reason":   offer.RejectionReason,
	}
	uc.broadcaster.SendToUser(offer.FreelancerID, EventOfferRejected, data)
	uc.broadcaster.SendToUser(offer.ClientID, EventOfferRejected, data)
	uc.broadcaster.SendToConversation(offer.ConversationID, EventOfferRejected, data)

	return offer, nil
}

// ListSentOffers returns offers the user proposed as freelancer.
func (uc *OfferUseCase) ListSentOffers(ctx context.Context, userID, status string) ([]*entity.CustomOffer, error) {
	offers, err := uc.offerRepo.ListByFreelancerID(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	uc.presentAll(offers)
	return offers, nil
}

// ListReceivedOffers returns offers proposed to the user as client.
func (uc *OfferUseCase) ListReceivedOffers(ctx context.Context, userID, status string) ([]*entity.CustomOffer, error) {
	offers, err := uc.offerRepo.ListByClientID(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	uc.presentAll(offers)
	return offers, nil
}

// ListConversationOffers returns the offers negotiated inside one
// conversation, for participants only.
func (uc *OfferUseCase) ListConversationOffers(ctx context.Context, userID, conversationID, status string) ([]*entity.CustomOffer, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.NotFound("Conversation", nil)
	}

	offers, err := uc.offerRepo.ListByConversationID(ctx, conversationID, status)
	if err != nil {
		return nil, err
	}
	uc.presentAll(offers)
	return offers, nil
}

func (uc *OfferUseCase) presentStatus(offer *entity.CustomOffer) {
	if uc.engine.IsExpired(offer) {
		offer.Status = entity.OfferStatusExpired
	}
}

func (uc *OfferUseCase) presentAll(offers []*entity.CustomOffer) {
	for _, offer := range offers {
		uc.presentStatus(offer)
	}
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
