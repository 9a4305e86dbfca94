package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"campusfeed/internal/middleware"
)

// setupWebsocket registers the realtime endpoint. Browsers cannot set an
// Authorization header on the upgrade request, so the token rides in the
// ?token= query parameter.
func (s *Server) setupWebsocket(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			if t, ok := bearerFromHeader(c); ok {
				token = t
			}
		}
		userID, err := middleware.UserIDFromToken(token)
		if err != nil || userID == 0 {
			return fiber.ErrUnauthorized
		}

		c.Locals("userID", userID)
		return c.Next()
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)
		if userID == 0 {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			// Per-user or global connection cap hit.
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
			_ = conn.Close()
			return
		}

		middleware.Logger.Info("websocket connected", "user_id", userID)
		go client.WritePump()
		client.ReadPump()
		middleware.Logger.Info("websocket disconnected", "user_id", userID)
	}))
}

func bearerFromHeader(c *fiber.Ctx) (string, bool) {
	h := c.Get("Authorization")
	if len(h) > 7 && h[:7] == "Bearer " {
		return h[7:], true
	}
	return "", false
}
