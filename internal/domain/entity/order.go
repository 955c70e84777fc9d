package entity

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusDelivered  = "delivered"
	OrderStatusRevision   = "revision"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	OrderTypeGig    = "gig"
	OrderTypeCustom = "custom"
)

type DeliveryFile struct {
	URL        string    `json:"url" firestore:"url"`
	Name       string    `json:"name" firestore:"name"`
	Size       int64     `json:"size,omitempty" firestore:"size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at" firestore:"uploadedAt"`
}

type RevisionRequest struct {
	Reason      string    `json:"reason" firestore:"reason"`
	RequestedAt time.Time `json:"requested_at" firestore:"requestedAt"`
}

type Order struct {
	ID               string            `json:"id" firestore:"id"`
	OrderNumber      string            `json:"order_number" firestore:"orderNumber"`
	ClientID         string            `json:"client_id" firestore:"clientId"`
	FreelancerID     string            `json:"freelancer_id" firestore:"freelancerId"`
	GigID            string            `json:"gig_id,omitempty" firestore:"gigId,omitempty"`
	CustomOfferID    string            `json:"custom_offer_id,omitempty" firestore:"customOfferId,omitempty"`
	ConversationID   string            `json:"conversation_id,omitempty" firestore:"conversationId,omitempty"`
	OrderType        string            `json:"order_type" firestore:"orderType"` // "gig" or "custom"
	Title            string            `json:"title" firestore:"title"`
	Description      string            `json:"description" firestore:"description"`
	Price            float64           `json:"price" firestore:"price"`
	DeliveryDays     int               `json:"delivery_days" firestore:"deliveryDays"`
	Revisions        int               `json:"revisions" firestore:"revisions"`
	Status           string            `json:"status" firestore:"status"`
	DeliveryFiles    []DeliveryFile    `json:"delivery_files,omitempty" firestore:"deliveryFiles,omitempty"`
	RevisionRequests []RevisionRequest `json:"revision_requests,omitempty" firestore:"revisionRequests,omitempty"`
	DeliveredAt      *time.Time        `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`
	CreatedAt        time.Time         `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time         `json:"updated_at" firestore:"updatedAt"`
}

// RevisionsRemaining reports how many revision requests the client may
// still make against this order.
func (o *Order) RevisionsRemaining() int {
	remaining := o.Revisions - len(o.RevisionRequests)
	if remaining < 0 {
		return 0
	}
	return remaining
}
