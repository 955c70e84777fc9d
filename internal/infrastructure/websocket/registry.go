package websocket

import (
	"context"
	"sync"
	"time"

	"giglink/internal/domain/repository"
	"giglink/pkg/logger"
)

// Registry tracks every live socket session, grouped by user, plus the
// conversation rooms sessions have joined. Presence is per identity, not
// per session: a user goes online when their first session attaches and
// offline only when the last one detaches.
type Registry struct {
	sessions map[string]map[*Client]struct{}
	rooms    map[string]map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client

	userRepo repository.UserRepository
	mutex    sync.RWMutex
}

func NewRegistry(userRepo repository.UserRepository) *Registry {
	return &Registry{
		sessions:   make(map[string]map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		userRepo:   userRepo,
	}
}

// Run processes attach/detach until the context is cancelled. Call it in
// a goroutine once at startup.
func (r *Registry) Run(ctx context.Context) {
	for {
		select {
		case client := <-r.Register:
			r.attach(ctx, client)

		case client := <-r.Unregister:
			r.detach(ctx, client)

		case <-ctx.Done():
			return
		}
	}
}

func (r *Registry) attach(ctx context.Context, client *Client) {
	r.mutex.Lock()
	first := len(r.sessions[client.UserID]) == 0
	if r.sessions[client.UserID] == nil {
		r.sessions[client.UserID] = make(map[*Client]struct{})
	}
	r.sessions[client.UserID][client] = struct{}{}
	r.mutex.Unlock()

	logger.Info("WebSocket: session attached for %s (first=%v)", client.UserID, first)

	if first {
		if err := r.userRepo.SetPresence(ctx, client.UserID, true, time.Now()); err != nil {
			logger.Error("WebSocket: failed to persist presence for %s: %v", client.UserID, err)
		}
		r.broadcastAll(EventUserStatusChange, map[string]interface{}{
			"user_id": client.UserID,
			"online":  true,
		})
	}
}

func (r *Registry) detach(ctx context.Context, client *Client) {
	r.mutex.Lock()
	if _, ok := r.sessions[client.UserID][client]; !ok {
		r.mutex.Unlock()
		return
	}
	delete(r.sessions[client.UserID], client)
	last := len(r.sessions[client.UserID]) == 0
	if last {
		delete(r.sessions, client.UserID)
	}
	for id, room := range r.rooms {
		delete(room, client)
		if len(room) == 0 {
			delete(r.rooms, id)
		}
	}
	close(client.Send)
	r.mutex.Unlock()

	logger.Info("WebSocket: session detached for %s (last=%v)", client.UserID, last)

	if last {
		lastSeen := time.Now()
		if err := r.userRepo.SetPresence(ctx, client.UserID, false, lastSeen); err != nil {
			logger.Error("WebSocket: failed to persist presence for %s: %v", client.UserID, err)
		}
		r.broadcastAll(EventUserStatusChange, map[string]interface{}{
			"user_id":   client.UserID,
			"online":    false,
			"last_seen": lastSeen.Format(time.RFC3339),
		})
	}
}

// JoinRoom subscribes a session to a conversation's room. Participation
// checks happen before this is called.
func (r *Registry) JoinRoom(conversationID string, client *Client) {
	r.mutex.Lock()
	if r.rooms[conversationID] == nil {
		r.rooms[conversationID] = make(map[*Client]struct{})
	}
	r.rooms[conversationID][client] = struct{}{}
	r.mutex.Unlock()
}

func (r *Registry) LeaveRoom(conversationID string, client *Client) {
	r.mutex.Lock()
	if room, ok := r.rooms[conversationID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(r.rooms, conversationID)
		}
	}
	r.mutex.Unlock()
}

// IsOnline reports whether the user has at least one live session.
func (r *Registry) IsOnline(userID string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.sessions[userID]) > 0
}

// SendToUser delivers an event to every live session of a user. Delivery
// is best effort: a session whose buffer is full misses the event rather
// than blocking the caller.
func (r *Registry) SendToUser(userID, eventType string, data interface{}) {
	raw := EncodeEvent(eventType, data)
	if raw == nil {
		return
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for client := range r.sessions[userID] {
		select {
		case client.Send <- raw:
		default:
			logger.Warn("WebSocket: dropping %s event for %s, send buffer full", eventType, userID)
		}
	}
}

// SendToConversation delivers an event to every session joined to a
// conversation's room.
func (r *Registry) SendToConversation(conversationID, eventType string, data interface{}) {
	r.sendToRoom(conversationID, "", eventType, data)
}

// SendToConversationExcept is SendToConversation minus the sessions of
// one user, for events the actor should not echo back to themselves.
func (r *Registry) SendToConversationExcept(conversationID, excludeUserID, eventType string, data interface{}) {
	r.sendToRoom(conversationID, excludeUserID, eventType, data)
}

func (r *Registry) sendToRoom(conversationID, excludeUserID, eventType string, data interface{}) {
	raw := EncodeEvent(eventType, data)
	if raw == nil {
		return
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for client := range r.rooms[conversationID] {
		if excludeUserID != "" && client.UserID == excludeUserID {
			continue
		}
		select {
		case client.Send <- raw:
		default:
			logger.Warn("WebSocket: dropping %s event for %s, send buffer full", eventType, client.UserID)
		}
	}
}

func (r *Registry) broadcastAll(eventType string, data interface{}) {
	raw := EncodeEvent(eventType, data)
	if raw == nil {
		return
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, clients := range r.sessions {
		for client := range clients {
			select {
			case client.Send <- raw:
			default:
			}
		}
	}
}
