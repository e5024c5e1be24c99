package realtime

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Serve registers c with the hub and pumps events to it until the socket
// closes. The caller has already authenticated the connection.
func Serve(h *Hub, c *websocket.Conn, client *Client) {
	if !h.RegisterClient(client) {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-client.Send:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = c.WriteMessage(websocket.CloseMessage, nil)
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					zap.L().Debug("websocket write", zap.Error(err))
					return
				}
			case <-ticker.C:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients only send keepalives; anything read just extends the deadline.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
		_ = c.SetReadDeadline(time.Now().Add(pongWait))
	}
	h.UnregisterClient(client)
	<-done
}
