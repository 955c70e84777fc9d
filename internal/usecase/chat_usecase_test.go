package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"giglink/internal/domain/entity"
	"giglink/pkg/errors"
)

func sendText(ctx context.Context, uc *ChatUseCase, sender, conversationID, content string) (*entity.Message, error) {
	return uc.SendMessage(ctx, sender, SendMessageInput{
		ConversationID: conversationID,
		Content:        content,
	})
}

func newChatFixture() (*ChatUseCase, *memConversationRepo, *memMessageRepo, *recordingBroadcaster) {
	convRepo := newMemConversationRepo()
	msgRepo := newMemMessageRepo()
	userRepo := newMemUserRepo(
		&entity.User{ID: "alice", Name: "Alice", Role: entity.RoleClient},
		&entity.User{ID: "bob", Name: "Bob", Role: entity.RoleFreelancer},
	)
	broadcaster := &recordingBroadcaster{}
	uc := NewChatUseCase(convRepo, msgRepo, userRepo, broadcaster)
	return uc, convRepo, msgRepo, broadcaster
}

func TestStartConversationIsIdempotent(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()

	first, err := uc.StartConversation(ctx, "alice", "bob")
	assert.NoError(t, err)

	// Same pair from the other side lands on the same conversation
	second, err := uc.StartConversation(ctx, "bob", "alice")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartConversationConcurrent(t *testing.T) {
	uc, convRepo, _, _ := newChatFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(fromAlice bool) {
			defer wg.Done()
			if fromAlice {
				uc.StartConversation(ctx, "alice", "bob")
			} else {
				uc.StartConversation(ctx, "bob", "alice")
			}
		}(i%2 == 0)
	}
	wg.Wait()

	conversations, err := convRepo.ListByUserID(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, conversations, 1)
}

func TestStartConversationRejectsSelfAndUnknown(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.StartConversation(ctx, "alice", "alice")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = uc.StartConversation(ctx, "alice", "nobody")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageUpdatesCountersAndBroadcasts(t *testing.T) {
	uc, convRepo, _, broadcaster := newChatFixture()
	ctx := context.Background()

	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	message, err := sendText(ctx, uc, "alice", conv.ID, "hello bob")
	assert.NoError(t, err)
	assert.Equal(t, entity.MessageTypeText, message.Type)
	assert.NotEmpty(t, message.ID)

	stored, _ := convRepo.GetByID(ctx, conv.ID)
	assert.Equal(t, 1, stored.UnreadCount["bob"])
	assert.Equal(t, 0, stored.UnreadCount["alice"])
	assert.NotNil(t, stored.LastMessage)
	assert.Equal(t, "hello bob", stored.LastMessage.Content)
	assert.Equal(t, "alice", stored.LastMessage.SenderID)

	room := broadcaster.eventsFor("conv:" + conv.ID)
	assert.Len(t, room, 1)
	assert.Equal(t, EventNewMessage, room[0].Event)

	bobEvents := broadcaster.eventsFor("user:bob")
	assert.Len(t, bobEvents, 1)
	assert.Equal(t, EventConversationUpdated, bobEvents[0].Event)
	payload := bobEvents[0].Data.(map[string]interface{})
	assert.Equal(t, 1, payload["unread_count"])

	aliceEvents := broadcaster.eventsFor("user:alice")
	assert.Len(t, aliceEvents, 1)
	alicePayload := aliceEvents[0].Data.(map[string]interface{})
	assert.Equal(t, 0, alicePayload["unread_count"])
}

func TestSendMessageBroadcastsFreshUnreadCounts(t *testing.T) {
	uc, convRepo, _, broadcaster := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	// The snapshot read before the increment plus the in-flight message
	// must add up to the stored count, never more.
	_, err := sendText(ctx, uc, "alice", conv.ID, "first")
	assert.NoError(t, err)
	_, err = sendText(ctx, uc, "alice", conv.ID, "second")
	assert.NoError(t, err)

	updates := broadcaster.eventsOfType("user:bob", EventConversationUpdated)
	assert.Len(t, updates, 2)
	assert.Equal(t, 1, updates[0].Data.(map[string]interface{})["unread_count"])
	assert.Equal(t, 2, updates[1].Data.(map[string]interface{})["unread_count"])

	stored, _ := convRepo.GetByID(ctx, conv.ID)
	assert.Equal(t, 2, stored.UnreadCount["bob"])
}

func TestConversationReadsAreSnapshots(t *testing.T) {
	_, convRepo, _, _ := newChatFixture()
	ctx := context.Background()

	conv, err := convRepo.FindOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)

	before, _ := convRepo.GetByID(ctx, conv.ID)
	assert.NoError(t, convRepo.IncrementUnread(ctx, conv.ID, "bob"))

	// A conversation handed out earlier never sees later mutations.
	assert.Equal(t, 0, before.UnreadCount["bob"])
	after, _ := convRepo.GetByID(ctx, conv.ID)
	assert.Equal(t, 1, after.UnreadCount["bob"])
}

func TestSendMessageValidation(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	_, err := sendText(ctx, uc, "alice", conv.ID, "   ")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	long := make([]byte, entity.MaxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = sendText(ctx, uc, "alice", conv.ID, string(long))
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{
		ConversationID: conv.ID,
		Content:        "hello",
		Type:           "carrier-pigeon",
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	// Clients cannot mint offer or system messages themselves
	for _, reserved := range []string{entity.MessageTypeOffer, entity.MessageTypeSystem} {
		_, err = uc.SendMessage(ctx, "alice", SendMessageInput{
			ConversationID: conv.ID,
			Content:        "hello",
			Type:           reserved,
		})
		assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	}

	// File messages need their metadata
	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{
		ConversationID: conv.ID,
		Content:        "see attached",
		Type:           entity.MessageTypeFile,
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	// Outsiders see NOT_FOUND, not FORBIDDEN
	_, err := sendText(ctx, uc, "mallory", conv.ID, "hi")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestListMessagesCursorPagination(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	sent := []string{"one", "two", "three", "four", "five"}
	for _, content := range sent {
		_, err := sendText(ctx, uc, "alice", conv.ID, content)
		assert.NoError(t, err)
	}

	// First page: the two newest, oldest-first within the page
	page, hasMore, err := uc.ListMessages(ctx, "bob", conv.ID, nil, 2)
	assert.NoError(t, err)
	assert.True(t, hasMore)
	assert.Equal(t, "four", page[0].Content)
	assert.Equal(t, "five", page[1].Content)

	// Walk backwards with the oldest timestamp as cursor
	cursor := page[0].CreatedAt
	page, hasMore, err = uc.ListMessages(ctx, "bob", conv.ID, &cursor, 2)
	assert.NoError(t, err)
	assert.True(t, hasMore)
	assert.Equal(t, "two", page[0].Content)
	assert.Equal(t, "three", page[1].Content)

	cursor = page[0].CreatedAt
	page, hasMore, err = uc.ListMessages(ctx, "bob", conv.ID, &cursor, 2)
	assert.NoError(t, err)
	assert.False(t, hasMore)
	assert.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Content)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	uc, convRepo, _, broadcaster := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	sendText(ctx, uc, "alice", conv.ID, "first")
	sendText(ctx, uc, "alice", conv.ID, "second")

	count, err := uc.MarkRead(ctx, "bob", conv.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, _ := convRepo.GetByID(ctx, conv.ID)
	assert.Equal(t, 0, stored.UnreadCount["bob"])

	// The read receipt lands on the sender's personal channel only
	read := broadcaster.eventsOfType("user:alice", EventMessagesRead)
	assert.Len(t, read, 1)
	payload := read[0].Data.(map[string]interface{})
	assert.Equal(t, "bob", payload["read_by"])

	// Second call finds nothing and stays quiet
	count, err = uc.MarkRead(ctx, "bob", conv.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, broadcaster.eventsOfType("user:alice", EventMessagesRead), 1)
}

func TestTypingBroadcastsWithoutPersisting(t *testing.T) {
	uc, _, msgRepo, broadcaster := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	assert.NoError(t, uc.Typing(ctx, "alice", conv.ID, true))

	events := broadcaster.eventsFor("conv:" + conv.ID + "!alice")
	assert.Len(t, events, 1)
	assert.Equal(t, EventUserTyping, events[0].Event)
	assert.Empty(t, msgRepo.messages)
}

func TestPostOfferMessageLeavesUnreadAlone(t *testing.T) {
	uc, convRepo, _, _ := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	message, err := uc.PostOfferMessage(ctx, conv.ID, "bob", "Custom offer: Logo design - $50", "offer-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.MessageTypeOffer, message.Type)
	assert.Equal(t, "offer-1", message.CustomOfferID)

	stored, _ := convRepo.GetByID(ctx, conv.ID)
	assert.Equal(t, 0, stored.UnreadCount["alice"])
	assert.NotNil(t, stored.LastMessage)
}

func TestJoinConversationRequiresParticipation(t *testing.T) {
	uc, _, _, _ := newChatFixture()
	ctx := context.Background()
	conv, _ := uc.StartConversation(ctx, "alice", "bob")

	assert.NoError(t, uc.JoinConversation(ctx, "alice", conv.ID))
	assert.True(t, errors.Is(uc.JoinConversation(ctx, "mallory", conv.ID), "NOT_FOUND"))
}
