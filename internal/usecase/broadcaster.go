package usecase

// Server -> client event names pushed by the business layer.
const (
	EventNewMessage          = "new_message"
	EventConversationUpdated = "conversation_updated"
	EventUserTyping          = "user_typing"
	EventMessagesRead        = "messages_read"
	EventOfferAccepted       = "offer_accepted"
	EventOfferRejected       = "offer_rejected"
	EventOrderDelivered      = "order_delivered"
	EventRevisionRequested   = "revision_requested"
)

// Broadcaster pushes events to live socket sessions. Delivery is best
// effort; persistence always happens before any push, so a missed event
// only costs freshness, never data.
type Broadcaster interface {
	SendToUser(userID, eventType string, data interface{})
	SendToConversation(conversationID, eventType string, data interface{})
	SendToConversationExcept(conversationID, excludeUserID, eventType string, data interface{})
}

// NoopBroadcaster satisfies Broadcaster without delivering anything.
// Useful for offline tooling and as a test default.
type NoopBroadcaster struct{}

func (NoopBroadcaster) SendToUser(userID, eventType string, data interface{}) {}

func (NoopBroadcaster) SendToConversation(conversationID, eventType string, data interface{}) {}

func (NoopBroadcaster) SendToConversationExcept(conversationID, excludeUserID, eventType string, data interface{}) {
}
