package server

import (
	"context"
	"encoding/json"
	"log"

	"moralverse/internal/notifications"
	"moralverse/internal/observability"
)

// publishBroadcastEvent fans an event envelope out to every connected client.
// When Redis is available the envelope goes through pub/sub so other server
// instances deliver it too; otherwise the local hub handles it alone.
// Delivery is best effort and never fails the request that produced the event.
func (s *Server) publishBroadcastEvent(eventType string, payload interface{}) {
	if s.notifier != nil {
		if err := s.notifier.PublishEvent(context.Background(), eventType, payload); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
		return
	}

	if s.hub == nil {
		return
	}

	data, err := json.Marshal(notifications.Envelope{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	observability.BroadcastEventsTotal.WithLabelValues(eventType).Inc()
	s.hub.BroadcastAll(string(data))
}
