package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"giglink/internal/adapter/api/middleware"
	ws "giglink/internal/infrastructure/websocket"
	"giglink/pkg/errors"
	"giglink/pkg/logger"
	"giglink/pkg/response"
)

type WebSocketHandler struct {
	registry       *ws.Registry
	eventHandler   *ws.EventHandler
	authMiddleware *middleware.AuthMiddleware
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the web client's origin once it is deployed
	},
}

func NewWebSocketHandler(registry *ws.Registry, eventHandler *ws.EventHandler, authMiddleware *middleware.AuthMiddleware) *WebSocketHandler {
	return &WebSocketHandler{
		registry:       registry,
		eventHandler:   eventHandler,
		authMiddleware: authMiddleware,
	}
}

// HandleWebSocket authenticates the ?token= query parameter and upgrades
// the connection. Browsers cannot set headers on upgrade requests, so the
// usual Bearer middleware does not apply here.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("Token is required", nil))
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written its own failure response
		logger.Error("WebSocket: upgrade failed: %v", err)
		return nil
	}

	client := ws.NewClient(userID, conn)
	h.registry.Register <- client

	go client.ReadPump(h.registry, h.eventHandler.HandleEvent)
	go client.WritePump()

	logger.Info("WebSocket: connection established for %s", userID)
	return nil
}
