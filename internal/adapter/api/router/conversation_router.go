package router

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/adapter/api/handler"
	"giglink/internal/adapter/api/middleware"
)

// SetupConversationRouter sets up conversation and message routes
func SetupConversationRouter(e *echo.Echo, conversationHandler *handler.ConversationHandler, offerHandler *handler.OfferHandler, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	group := e.Group("/v1/conversations")
	group.Use(authMiddleware.Authenticate)

	group.POST("", conversationHandler.StartConversation, rateLimitMiddleware.Limit("start_conversation"))
	group.GET("", conversationHandler.ListConversations)
	group.GET("/:id", conversationHandler.GetConversation)
	group.PUT("/:id/read", conversationHandler.MarkRead)

	group.GET("/:id/messages", conversationHandler.GetMessages)
	group.POST("/:id/messages", conversationHandler.SendMessage, rateLimitMiddleware.Limit("send_message"))

	group.GET("/:id/offers", offerHandler.ListConversationOffers)
}
