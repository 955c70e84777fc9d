package router

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up the realtime attach endpoint. Auth happens
// inside the handler via the token query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
