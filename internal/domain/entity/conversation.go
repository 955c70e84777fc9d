package entity

import "time"

// LastMessage is a denormalized summary of the newest message, kept on the
// conversation for list rendering. The message log is the source of truth;
// a stale summary after a crash is tolerated.
type LastMessage struct {
	Content   string    `json:"content" firestore:"content"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

// Conversation is a durable two-party chat thread. Participants always has
// exactly two entries; UnreadCount is keyed by participant ID.
type Conversation struct {
	ID           string         `json:"id" firestore:"id"`
	Participants []string       `json:"participants" firestore:"participants"`
	LastMessage  *LastMessage   `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCount  map[string]int `json:"unread_count" firestore:"unreadCount"`
	OrderID      string         `json:"order_id,omitempty" firestore:"orderId,omitempty"`
	GigID        string         `json:"gig_id,omitempty" firestore:"gigId,omitempty"`
	CreatedAt    time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time      `json:"updated_at" firestore:"updatedAt"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not a participant.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}
