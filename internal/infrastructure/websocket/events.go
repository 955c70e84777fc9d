package websocket

import (
	"encoding/json"
	"time"
)

// Client -> server event types
const (
	EventUserConnected     = "user_connected"
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventTyping            = "typing"
	EventMarkRead          = "mark_read"
	EventPing              = "ping"
)

// Server -> client event types emitted by this package. Events produced
// by the business layer carry their names with them.
const (
	EventPong             = "pong"
	EventUserStatusChange = "user_status_change"
	EventError            = "error"
)

// Event is the wire envelope for everything crossing the socket, in
// either direction.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// EncodeEvent wraps a payload in the envelope and marshals it. A payload
// that cannot marshal is a programming error; callers get nil and should
// drop the event.
func EncodeEvent(eventType string, data interface{}) []byte {
	raw, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil
	}
	return raw
}

// Inbound payloads

type JoinConversationData struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageData struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	Type           string `json:"type,omitempty"`
	FileURL        string `json:"file_url,omitempty"`
	FileName       string `json:"file_name,omitempty"`
	FileSize       int64  `json:"file_size,omitempty"`
}

type TypingData struct {
	ConversationID string `json:"conversation_id"`
	IsTyping       bool   `json:"is_typing"`
}

type MarkReadData struct {
	ConversationID string `json:"conversation_id"`
}

// ErrorData is what the error event carries back to the offending session.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
