package websocket

import (
	"context"
	"encoding/json"
	"time"

	"giglink/internal/infrastructure/ratelimit"
	"giglink/internal/usecase"
	apperrors "giglink/pkg/errors"
	"giglink/pkg/logger"
)

// EventHandler dispatches inbound socket events to the chat flow. Room
// membership changes stay here; everything with business meaning goes
// through the usecase.
type EventHandler struct {
	registry *Registry
	chat     *usecase.ChatUseCase
	limiter  *ratelimit.RateLimiter
}

func NewEventHandler(registry *Registry, chat *usecase.ChatUseCase, limiter *ratelimit.RateLimiter) *EventHandler {
	return &EventHandler{
		registry: registry,
		chat:     chat,
		limiter:  limiter,
	}
}

// HandleEvent processes one inbound frame from a session.
func (h *EventHandler) HandleEvent(client *Client, raw []byte) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		h.sendError(client, apperrors.BadRequest("Invalid event format", err))
		return
	}

	ctx := context.Background()

	switch event.Type {
	case EventPing:
		h.send(client, EventPong, map[string]string{"status": "alive"})

	case EventUserConnected:
		// Legacy clients announce themselves after attaching; identity is
		// already bound at upgrade so there is nothing to do.

	case EventJoinConversation:
		var data JoinConversationData
		if !h.decode(client, event.Data, &data) {
			return
		}
		if err := h.chat.JoinConversation(ctx, client.UserID, data.ConversationID); err != nil {
			h.sendError(client, err)
			return
		}
		h.registry.JoinRoom(data.ConversationID, client)

	case EventLeaveConversation:
		var data JoinConversationData
		if !h.decode(client, event.Data, &data) {
			return
		}
		h.registry.LeaveRoom(data.ConversationID, client)

	case EventSendMessage:
		if !h.allow(client, "send_message") {
			return
		}
		var data SendMessageData
		if !h.decode(client, event.Data, &data) {
			return
		}
		if _, err := h.chat.SendMessage(ctx, client.UserID, usecase.SendMessageInput{
			ConversationID: data.ConversationID,
			Content:        data.Content,
			Type:           data.Type,
			FileURL:        data.FileURL,
			FileName:       data.FileName,
			FileSize:       data.FileSize,
		}); err != nil {
			h.sendError(client, err)
		}

	case EventTyping:
		if !h.allow(client, "typing") {
			return
		}
		var data TypingData
		if !h.decode(client, event.Data, &data) {
			return
		}
		if err := h.chat.Typing(ctx, client.UserID, data.ConversationID, data.IsTyping); err != nil {
			h.sendError(client, err)
		}

	case EventMarkRead:
		var data MarkReadData
		if !h.decode(client, event.Data, &data) {
			return
		}
		if _, err := h.chat.MarkRead(ctx, client.UserID, data.ConversationID); err != nil {
			h.sendError(client, err)
		}

	default:
		logger.Warn("WebSocket: unknown event type '%s' from %s", event.Type, client.UserID)
		h.sendError(client, apperrors.BadRequest("Unknown event type", nil))
	}
}

// decode remarshals the envelope's data field into a typed payload.
func (h *EventHandler) decode(client *Client, data interface{}, out interface{}) bool {
	raw, err := json.Marshal(data)
	if err == nil {
		err = json.Unmarshal(raw, out)
	}
	if err != nil {
		h.sendError(client, apperrors.BadRequest("Invalid event data", err))
		return false
	}
	return true
}

func (h *EventHandler) allow(client *Client, action string) bool {
	allowed, wait := h.limiter.Allow(client.UserID, action)
	if !allowed {
		h.sendError(client, apperrors.TooManyRequests("Rate limit exceeded, retry in "+wait.Round(time.Second).String()))
	}
	return allowed
}

func (h *EventHandler) send(client *Client, eventType string, data interface{}) {
	raw := EncodeEvent(eventType, data)
	if raw == nil {
		return
	}
	select {
	case client.Send <- raw:
	default:
	}
}

func (h *EventHandler) sendError(client *Client, err error) {
	data := ErrorData{Code: "INTERNAL_ERROR", Message: "Something went wrong"}
	if appErr, ok := err.(*apperrors.AppError); ok {
		data.Code = appErr.Code
		data.Message = appErr.Message
	}
	h.send(client, EventError, data)
}
