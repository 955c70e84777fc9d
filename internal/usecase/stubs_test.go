package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"giglink/internal/domain/entity"
	"giglink/pkg/errors"
)

// In-memory repository fakes. They mirror the Firestore adapters'
// observable behavior: FindOrCreate keys on the sorted pair, message
// listing pages newest-first but returns oldest-first, mark-read is
// idempotent.

type memConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{conversations: make(map[string]*entity.Conversation)}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "__" + b
}

// cloneConversation returns a snapshot, the way a Firestore read decodes
// a fresh document. Callers holding a returned conversation must never
// observe later repo mutations.
func cloneConversation(conv *entity.Conversation) *entity.Conversation {
	out := *conv
	out.Participants = append([]string(nil), conv.Participants...)
	out.UnreadCount = make(map[string]int, len(conv.UnreadCount))
	for k, v := range conv.UnreadCount {
		out.UnreadCount[k] = v
	}
	if conv.LastMessage != nil {
		last := *conv.LastMessage
		out.LastMessage = &last
	}
	return &out
}

func (r *memConversationRepo) FindOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(userA, userB)
	if conv, ok := r.conversations[key]; ok {
		return cloneConversation(conv), nil
	}

	now := time.Now()
	conv := &entity.Conversation{
		ID:           key,
		Participants: []string{userA, userB},
		UnreadCount:  map[string]int{userA: 0, userB: 0},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.conversations[key] = conv
	return cloneConversation(conv), nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConversation(conv), nil
}

func (r *memConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Conversation
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			out = append(out, cloneConversation(conv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memConversationRepo) SetLastMessage(ctx context.Context, id string, last *entity.LastMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conv.LastMessage = last
	conv.UpdatedAt = time.Now()
	return nil
}

func (r *memConversationRepo) IncrementUnread(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conv.UnreadCount[userID]++
	return nil
}

func (r *memConversationRepo) ResetUnread(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conv.UnreadCount[userID] = 0
	return nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
	seq      int
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{}
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	if message.CreatedAt.IsZero() {
		// Strictly increasing timestamps so cursor tests are deterministic
		message.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *memMessageRepo) ListByConversation(ctx context.Context, conversationID string, before *time.Time, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Message
	for _, m := range r.messages {
		if m.ConversationID != conversationID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, nil
}

func (r *memMessageRepo) MarkConversationRead(ctx context.Context, conversationID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	count := 0
	for _, m := range r.messages {
		if m.ConversationID != conversationID || m.SenderID == readerID || m.IsRead {
			continue
		}
		m.IsRead = true
		m.ReadAt = &now
		count++
	}
	return count, nil
}

type memOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*entity.CustomOffer
	seq    int
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[string]*entity.CustomOffer)}
}

func (r *memOfferRepo) Create(ctx context.Context, offer *entity.CustomOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if offer.ID == "" {
		offer.ID = fmt.Sprintf("offer-%d", r.seq)
	}
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *memOfferRepo) GetByID(ctx context.Context, id string) (*entity.CustomOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offer, ok := r.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	copied := *offer
	return &copied, nil
}

func (r *memOfferRepo) Update(ctx context.Context, offer *entity.CustomOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return errors.NotFound("Offer", nil)
	}
	copied := *offer
	r.offers[offer.ID] = &copied
	return nil
}

func (r *memOfferRepo) ListByFreelancerID(ctx context.Context, freelancerID, status string) ([]*entity.CustomOffer, error) {
	return r.list(func(o *entity.CustomOffer) bool { return o.FreelancerID == freelancerID }, status)
}

func (r *memOfferRepo) ListByClientID(ctx context.Context, clientID, status string) ([]*entity.CustomOffer, error) {
	return r.list(func(o *entity.CustomOffer) bool { return o.ClientID == clientID }, status)
}

func (r *memOfferRepo) ListByConversationID(ctx context.Context, conversationID, status string) ([]*entity.CustomOffer, error) {
	return r.list(func(o *entity.CustomOffer) bool { return o.ConversationID == conversationID }, status)
}

func (r *memOfferRepo) list(match func(*entity.CustomOffer) bool, status string) ([]*entity.CustomOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CustomOffer
	for _, offer := range r.offers {
		if !match(offer) {
			continue
		}
		if status != "" && offer.Status != status {
			continue
		}
		copied := *offer
		out = append(out, &copied)
	}
	return out, nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	seq    int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *memOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if order.ID == "" {
		order.ID = fmt.Sprintf("order-%d", r.seq)
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return errors.NotFound("Order", nil)
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memOrderRepo) ListByUserID(ctx context.Context, userID, status string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if order.ClientID != userID && order.FreelancerID != userID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepo) SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.OnlineStatus = online
		user.LastSeen = lastSeen
	}
	return nil
}

// recordingBroadcaster captures pushes for assertions.

type broadcastRecord struct {
	Target string // "user:<id>", "conv:<id>" or "conv:<id>!<excluded>"
	Event  string
	Data   interface{}
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	records []broadcastRecord
}

func (b *recordingBroadcaster) SendToUser(userID, eventType string, data interface{}) {
	b.record("user:"+userID, eventType, data)
}

func (b *recordingBroadcaster) SendToConversation(conversationID, eventType string, data interface{}) {
	b.record("conv:"+conversationID, eventType, data)
}

func (b *recordingBroadcaster) SendToConversationExcept(conversationID, excludeUserID, eventType string, data interface{}) {
	b.record("conv:"+conversationID+"!"+excludeUserID, eventType, data)
}

func (b *recordingBroadcaster) record(target, eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, broadcastRecord{Target: target, Event: eventType, Data: data})
}

func (b *recordingBroadcaster) eventsFor(targetPrefix string) []broadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastRecord
	for _, r := range b.records {
		if strings.HasPrefix(r.Target, targetPrefix) {
			out = append(out, r)
		}
	}
	return out
}

func (b *recordingBroadcaster) eventsOfType(targetPrefix, eventType string) []broadcastRecord {
	var out []broadcastRecord
	for _, r := range b.eventsFor(targetPrefix) {
		if r.Event == eventType {
			out = append(out, r)
		}
	}
	return out
}

func (b *recordingBroadcaster) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, r := range b.records {
		out = append(out, r.Event)
	}
	return out
}
