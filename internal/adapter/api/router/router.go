package router

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/adapter/api/handler"
	"giglink/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	conversationHandler *handler.ConversationHandler,
	offerHandler *handler.OfferHandler,
	orderHandler *handler.OrderHandler,
	wsHandler *handler.WebSocketHandler,
) {
	SetupConversationRouter(e, conversationHandler, offerHandler, authMiddleware, rateLimitMiddleware)
	SetupOfferRouter(e, offerHandler, authMiddleware, rateLimitMiddleware)
	SetupOrderRouter(e, orderHandler, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
	SetupHealthRouter(e)
}
