package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"

	"moralverse/internal/observability"
)

// BroadcastChannel is the Redis channel every event envelope is published to.
const BroadcastChannel = "events:broadcast"

// Event type constants for the broadcast envelope.
const (
	EventPostCreated  = "post-created"
	EventLikeUpdated  = "like-updated"
	EventCommentAdded = "comment-added"
	EventUserUpdated  = "user-updated"
)

// Envelope is the wire format delivered to websocket clients.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Notifier publishes event envelopes into the Redis broadcast channel so that
// every server instance can fan them out to its own websocket clients.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishBroadcast sends a raw payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, BroadcastChannel, payload).Err()
}

// PublishEvent wraps payload in an envelope and broadcasts it. Delivery is
// best effort: marshal or publish failures are reported to the caller but
// never roll back the operation that produced the event.
func (n *Notifier) PublishEvent(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(Envelope{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	observability.BroadcastEventsTotal.WithLabelValues(eventType).Inc()
	return n.PublishBroadcast(ctx, string(data))
}

// StartBroadcastSubscriber subscribes to the broadcast channel and calls
// onMessage for each incoming envelope until ctx is cancelled.
func (n *Notifier) StartBroadcastSubscriber(
	ctx context.Context, onMessage func(payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, BroadcastChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in BroadcastSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
