package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/middleware"
	"github.com/sthapati/sthapati_be/internal/realtime"
)

const localSocketUser = "socketUser"

type RealtimeHandler struct {
	Hub *realtime.Hub
}

// Upgrade admits websocket handshakes that carry a session. It runs after
// JWTFromCookie and AttachJWTLocals.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	uid, ok := middleware.UserID(c)
	if !ok {
		return apperrors.Unauthorized("Authentication required")
	}
	c.Locals(localSocketUser, uid)
	return c.Next()
}

func (h *RealtimeHandler) Handle() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals(localSocketUser).(uuid.UUID)
		if !ok {
			_ = conn.Close()
			return
		}
		client := realtime.NewClient(uid)
		zap.L().Debug("websocket connected", zap.Stringer("user", uid), zap.String("client", client.ID))
		realtime.Serve(h.Hub, conn, client)
		zap.L().Debug("websocket disconnected", zap.Stringer("user", uid), zap.String("client", client.ID))
	})
}
