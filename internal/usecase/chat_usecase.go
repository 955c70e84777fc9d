package usecase

import (
	"context"
	"strings"
	"time"

	"giglink/internal/domain/entity"
	"giglink/internal/domain/repository"
	"giglink/pkg/errors"
	"giglink/pkg/logger"
)

// ChatUseCase coordinates the messaging flow: persistence first, then
// counters, then best-effort pushes to live sessions.
type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	broadcaster      Broadcaster
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
	}
}

// StartConversation returns the conversation between the two users,
// creating it if they have never talked. Calling it twice, or from both
// sides at once, yields the same conversation.
func (uc *ChatUseCase) StartConversation(ctx context.Context, userID, otherUserID string) (*entity.Conversation, error) {
	if otherUserID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if userID == otherUserID {
		return nil, errors.BadRequest("Cannot start a conversation with yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	conversation, err := uc.conversationRepo.FindOrCreate(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return uc.conversationRepo.ListByUserID(ctx, userID)
}

// GetConversation loads a conversation the caller participates in.
// Outsiders get NOT_FOUND rather than FORBIDDEN so they cannot probe for
// which pairs of users talk to each other.
func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conversation, nil
}

type SendMessageInput struct {
	ConversationID string
	Content        string
	Type           string
	FileURL        string
	FileName       string
	FileSize       int64
}

// SendMessage appends a message and fans it out. Order matters: the
// message is durable before lastMessage moves, and counters move before
// any socket push. Clients may only send text and file messages; offer
// and system entries come from their own flows.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	conversation, err := uc.GetConversation(ctx, senderID, input.ConversationID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}
	if len(content) > entity.MaxMessageLength {
		return nil, errors.BadRequest("Message content exceeds maximum length", nil)
	}

	messageType := input.Type
	if messageType == "" {
		messageType = entity.MessageTypeText
	}
	switch messageType {
	case entity.MessageTypeText:
	case entity.MessageTypeFile:
		if input.FileURL == "" || input.FileName == "" {
			return nil, errors.BadRequest("File messages require a url and name", nil)
		}
	default:
		return nil, errors.BadRequest("Invalid message type", nil)
	}

	message := &entity.Message{
		ConversationID: input.ConversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           messageType,
		FileURL:        input.FileURL,
		FileName:       input.FileName,
		FileSize:       input.FileSize,
	}

	return uc.deliver(ctx, conversation, message, true)
}

// PostOfferMessage drops an offer card into the conversation on behalf of
// the offer flow. It moves lastMessage but leaves unread counters alone.
func (uc *ChatUseCase) PostOfferMessage(ctx context.Context, conversationID, senderID, content, offerID string) (*entity.Message, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           entity.MessageTypeOffer,
		CustomOfferID:  offerID,
	}

	return uc.deliver(ctx, conversation, message, false)
}

// PostSystemMessage records a lifecycle announcement (order created,
// delivery made) attributed to the acting user.
func (uc *ChatUseCase) PostSystemMessage(ctx context.Context, conversationID, senderID, content string) (*entity.Message, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Type:           entity.MessageTypeSystem,
	}

	return uc.deliver(ctx, conversation, message, false)
}

func (uc *ChatUseCase) deliver(ctx context.Context, conversation *entity.Conversation, message *entity.Message, countUnread bool) (*entity.Message, error) {
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	last := &entity.LastMessage{
		Content:   message.Content,
		SenderID:  message.SenderID,
		Timestamp: message.CreatedAt,
	}
	if err := uc.conversationRepo.SetLastMessage(ctx, conversation.ID, last); err != nil {
		logger.Error("Chat: failed to update lastMessage for %s: %v", conversation.ID, err)
	}

	recipient := conversation.OtherParticipant(message.SenderID)
	if countUnread && recipient != "" {
		if err := uc.conversationRepo.IncrementUnread(ctx, conversation.ID, recipient); err != nil {
			logger.Error("Chat: failed to increment unread for %s: %v", conversation.ID, err)
		}
	}

	uc.broadcaster.SendToConversation(conversation.ID, EventNewMessage, message)

	for _, participant := range conversation.Participants {
		unread := conversation.UnreadCount[participant]
		if countUnread && participant == recipient {
			unread++
		}
		uc.broadcaster.SendToUser(participant, EventConversationUpdated, map[string]interface{}{
			"conversation_id": conversation.ID,
			"last_message":    last,
			"unread_count":    unread,
		})
	}

	return message, nil
}

// ListMessages pages backwards through history. hasMore is true when an
// older page likely exists; clients pass the oldest returned timestamp as
// the next cursor.
func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, conversationID string, before *time.Time, limit int) ([]*entity.Message, bool, error) {
	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, false, err
	}

	messages, err := uc.messageRepo.ListByConversation(ctx, conversationID, before, limit)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) == limit
	return messages, hasMore, nil
}

// MarkRead flips every unread incoming message and zeroes the caller's
// counter. Safe to repeat; only the first call announces anything, and
// only on the other participant's personal channel.
func (uc *ChatUseCase) MarkRead(ctx context.Context, userID, conversationID string) (int, error) {
	conversation, err := uc.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}

	count, err := uc.messageRepo.MarkConversationRead(ctx, conversationID, userID)
	if err != nil {
		return 0, err
	}

	if err := uc.conversationRepo.ResetUnread(ctx, conversationID, userID); err != nil {
		logger.Error("Chat: failed to reset unread for %s: %v", conversationID, err)
	}

	if count > 0 {
		uc.broadcaster.SendToUser(conversation.OtherParticipant(userID), EventMessagesRead, map[string]interface{}{
			"conversation_id": conversationID,
			"read_by":         userID,
		})
	}

	return count, nil
}

// Typing relays a transient indicator to the rest of the room. Nothing is
// stored.
func (uc *ChatUseCase) Typing(ctx context.Context, userID, conversationID string, isTyping bool) error {
	if _, err := uc.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}

	uc.broadcaster.SendToConversationExcept(conversationID, userID, EventUserTyping, map[string]interface{}{
		"conversation_id": conversationID,
		"user_id":         userID,
		"is_typing":       isTyping,
	})

	return nil
}

// JoinConversation authorizes a session's request to subscribe to a room.
func (uc *ChatUseCase) JoinConversation(ctx context.Context, userID, conversationID string) error {
	_, err := uc.GetConversation(ctx, userID, conversationID)
	return err
}
