package websocket

import (
	"github.com/gorilla/websocket"

	"giglink/pkg/logger"
)

const sendBufferSize = 256

// Client is one live socket session. A user with two open tabs holds two
// Clients under the same UserID.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// ReadPump reads events off the socket and hands them to the dispatcher
// until the connection drops. Must run in its own goroutine, one per
// client.
func (c *Client) ReadPump(r *Registry, handle func(*Client, []byte)) {
	defer func() {
		r.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for %s: %v", c.UserID, err)
			}
			break
		}

		handle(c, raw)
	}
}

// WritePump drains the send channel onto the socket. Must run in its own
// goroutine, one per client.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		raw, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			logger.Warn("WebSocket: write error for %s: %v", c.UserID, err)
			return
		}
	}
}
