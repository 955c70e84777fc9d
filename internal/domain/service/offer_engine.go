package service

import (
	"fmt"
	"time"

	"giglink/internal/domain/entity"
	"giglink/pkg/errors"
)

// OfferTerms carries the freelancer-proposed terms for a new custom offer.
type OfferTerms struct {
	Title        string
	Description  string
	Price        float64
	DeliveryDays int
	Revisions    int
}

// OfferEngine owns the custom-offer state machine. Its methods are pure
// transitions over the CustomOffer entity: no persistence, no messages, no
// transport. Callers persist the mutated offer and orchestrate side effects.
type OfferEngine struct {
	expiry   time.Duration
	minPrice float64
	now      func() time.Time
}

func NewOfferEngine(expiry time.Duration, minPrice float64) *OfferEngine {
	return &OfferEngine{
		expiry:   expiry,
		minPrice: minPrice,
		now:      time.Now,
	}
}

// WithClock overrides the engine's time source.
func (e *OfferEngine) WithClock(now func() time.Time) *OfferEngine {
	e.now = now
	return e
}

// NewOffer validates terms and builds a pending offer. ExpiresAt is fixed at
// creation and never mutated afterwards.
func (e *OfferEngine) NewOffer(freelancerID, clientID, conversationID string, terms OfferTerms) (*entity.CustomOffer, error) {
	if terms.Title == "" {
		return nil, errors.BadRequest("title is required", nil)
	}
	if terms.Description == "" {
		return nil, errors.BadRequest("description is required", nil)
	}
	if terms.Price < e.minPrice {
		return nil, errors.BadRequest(fmt.Sprintf("price must be at least %.0f", e.minPrice), nil)
	}
	if terms.DeliveryDays < 1 || terms.DeliveryDays > 90 {
		return nil, errors.BadRequest("delivery days must be between 1 and 90", nil)
	}
	if terms.Revisions < 0 || terms.Revisions > 10 {
		return nil, errors.BadRequest("revisions must be between 0 and 10", nil)
	}

	now := e.now()
	return &entity.CustomOffer{
		FreelancerID:   freelancerID,
		ClientID:       clientID,
		ConversationID: conversationID,
		Title:          terms.Title,
		Description:    terms.Description,
		Price:          terms.Price,
		DeliveryDays:   terms.DeliveryDays,
		Revisions:      terms.Revisions,
		Status:         entity.OfferStatusPending,
		ExpiresAt:      now.Add(e.expiry),
		CreatedAt:      now,
	}, nil
}

// IsExpired is the read-time expiry predicate: pending and past the
// deadline. The stored status is never rewritten by time alone.
func (e *OfferEngine) IsExpired(offer *entity.CustomOffer) bool {
	return offer.Status == entity.OfferStatusPending && e.now().After(offer.ExpiresAt)
}

// Accept moves a pending offer to accepted. Check order matters: status
// first, then expiry, then actor. An expired offer cannot be accepted even
// by the correct client.
func (e *OfferEngine) Accept(offer *entity.CustomOffer, actorID string) error {
	if offer.Status != entity.OfferStatusPending {
		return errors.InvalidTransition(fmt.Sprintf("offer is %s, not pending", offer.Status))
	}
	if e.IsExpired(offer) {
		return errors.Expired("offer has expired")
	}
	if actorID != offer.ClientID {
		return errors.Forbidden("only the client can accept this offer", nil)
	}

	now := e.now()
	offer.Status = entity.OfferStatusAccepted
	offer.AcceptedAt = &now
	return nil
}

// Reject moves a pending offer to rejected. Unlike Accept there is no
// expiry check: closing out a stale offer is allowed since nothing beyond
// bookkeeping happens.
func (e *OfferEngine) Reject(offer *entity.CustomOffer, actorID, reason string) error {
	if offer.Status != entity.OfferStatusPending {
		return errors.InvalidTransition(fmt.Sprintf("offer is %s, not pending", offer.Status))
	}
	if actorID != offer.ClientID {
		return errors.Forbidden("only the client can reject this offer", nil)
	}

	now := e.now()
	offer.Status = entity.OfferStatusRejected
	offer.RejectedAt = &now
	offer.RejectionReason = reason
	return nil
}

// Convert finalizes an accepted offer after its order has been created.
// Only reachable from accepted; the caller must not convert twice.
func (e *OfferEngine) Convert(offer *entity.CustomOffer) error {
	if offer.Status != entity.OfferStatusAccepted {
		return errors.InvalidTransition(fmt.Sprintf("cannot convert offer with status %s", offer.Status))
	}

	offer.Status = entity.OfferStatusConverted
	return nil
}
