package notifier

import (
	"github.com/cristianortiz/marketplaceEngine/internal/shared/httpserver"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// RegisterRoutes mounts the websocket notification endpoint on the app. The
// principal comes from the same header the HTTP surface uses.
func RegisterRoutes(app *fiber.App, hub *Hub) {
	app.Use("/ws/notifications", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		userID, err := uuid.Parse(c.Get(httpserver.HeaderUserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("userID", userID)
		return c.Next()
	})

	app.Get("/ws/notifications", websocket.New(func(conn *websocket.Conn) {
		userID := conn.Locals("userID").(uuid.UUID)
		client := &Client{
			Hub:    hub,
			Conn:   conn,
			Send:   make(chan []byte, 16),
			UserID: userID,
		}
		hub.RegisterClient(client)
		go client.WritePump()
		client.ReadPump()
	}))
}
