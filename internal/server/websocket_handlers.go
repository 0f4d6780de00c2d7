package server

import (
	"context"
	"log"

	"moralverse/internal/middleware"
	"moralverse/internal/models"
	"moralverse/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler returns a websocket handler that registers connections with the Hub.
// Authentication is handled by route middleware and the identity is read from
// connection locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	wsLogger := observability.NewWSLogger("event hub")

	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		identity, ok := conn.Locals(identityKey).(models.Identity)
		if !ok {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		// Register connection with scaling guardrails
		client, err := s.hub.Register(identity.UserID, conn)
		if err != nil {
			wsLogger.LogError(context.Background(), identity.UserID, err, "register")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		wsLogger.LogConnect(context.Background(), identity.UserID)
		defer func() {
			s.hub.UnregisterClient(client)
			wsLogger.LogDisconnect(context.Background(), identity.UserID, "read pump closed")
		}()

		// Start pumps; ReadPump blocks until the peer disconnects.
		go client.WritePump()
		client.ReadPump()
	})
}
