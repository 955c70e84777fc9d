package handler

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/usecase"
	"giglink/pkg/response"
	"giglink/pkg/utils"
)

type ConversationHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewConversationHandler(chatUseCase *usecase.ChatUseCase) *ConversationHandler {
	return &ConversationHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
}

type sendMessageRequest struct {
	Content  string `json:"content" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=text file"`
	FileURL  string `json:"file_url" validate:"omitempty,url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// StartConversation opens (or returns) the conversation with another user
func (h *ConversationHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.StartConversation(c.Request().Context(), userID, req.RecipientID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conversation)
}

// ListConversations returns the authenticated user's conversations,
// most recently active first
func (h *ConversationHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ConversationHandler) GetConversation(c echo.Context) error {
	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.GetConversation(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

// GetMessages pages backwards through a conversation's history using the
// before/limit cursor
func (h *ConversationHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetMessagePageParams(c, 50, 100)

	messages, hasMore, err := h.chatUseCase.ListMessages(c.Request().Context(), userID, c.Param("id"), params.Before, params.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"messages": messages,
		"has_more": hasMore,
	})
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ConversationID: c.Param("id"),
		Content:        req.Content,
		Type:           req.Type,
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// MarkRead marks every incoming message in the conversation as read
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	count, err := h.chatUseCase.MarkRead(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"marked_read": count,
	})
}
