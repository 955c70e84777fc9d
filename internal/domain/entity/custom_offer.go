package entity

import "time"

const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusExpired   = "expired"
	OfferStatusConverted = "converted"
)

// CustomOffer is a freelancer-proposed price/scope/timeline term set
// negotiated inside a conversation. Status moves one-directionally:
// pending -> accepted -> converted, pending -> rejected. "expired" is
// derived lazily from ExpiresAt while status is still pending; the stored
// status is never rewritten by the passage of time.
type CustomOffer struct {
	ID              string     `json:"id" firestore:"id"`
	FreelancerID    string     `json:"freelancer_id" firestore:"freelancerId"`
	ClientID        string     `json:"client_id" firestore:"clientId"`
	ConversationID  string     `json:"conversation_id" firestore:"conversationId"`
	Title           string     `json:"title" firestore:"title"`
	Description     string     `json:"description" firestore:"description"`
	Price           float64    `json:"price" firestore:"price"`
	DeliveryDays    int        `json:"delivery_days" firestore:"deliveryDays"`
	Revisions       int        `json:"revisions" firestore:"revisions"`
	Status          string     `json:"status" firestore:"status"`
	ExpiresAt       time.Time  `json:"expires_at" firestore:"expiresAt"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty" firestore:"acceptedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" firestore:"rejectedAt,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time  `json:"updated_at" firestore:"updatedAt"`
}
