package entity

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeOffer  = "offer"
	MessageTypeSystem = "system"
)

// MaxMessageLength bounds message content.
const MaxMessageLength = 5000

// Message is one append-only entry in a conversation's log. Messages are
// immutable once created except for the read flag, which only the
// non-sender participant may flip.
type Message struct {
	ID             string     `json:"id" firestore:"id"`
	ConversationID string     `json:"conversation_id" firestore:"conversationId"`
	SenderID       string     `json:"sender_id" firestore:"senderId"`
	Content        string     `json:"content" firestore:"content"`
	Type           string     `json:"type" firestore:"type"` // "text", "file", "offer", "system"
	FileURL        string     `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
	FileName       string     `json:"file_name,omitempty" firestore:"fileName,omitempty"`
	FileSize       int64      `json:"file_size,omitempty" firestore:"fileSize,omitempty"`
	CustomOfferID  string     `json:"custom_offer_id,omitempty" firestore:"customOfferId,omitempty"`
	IsRead         bool       `json:"is_read" firestore:"isRead"`
	ReadAt         *time.Time `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"created_at" firestore:"createdAt"`
}

func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeFile, MessageTypeOffer, MessageTypeSystem:
		return true
	}
	return false
}
