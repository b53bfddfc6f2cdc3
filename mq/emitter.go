package mq

import (
	"context"
	"encoding/json"
	"log"

	"verso/rdx"
)

const channel = "store-events"

// Event is a lightweight notification published after a state change, used by
// the indexing worker and any external listeners.
type Event struct {
	EntityType string `json:"entity_type"` // "order", "product", "promotion"
	EntityID   string `json:"entity_id"`
	Action     string `json:"action"` // "placed", "cancelled", "status", ...
	Extra      string `json:"extra,omitempty"`
}

// Emit publishes an event to Redis. Failures are logged, never fatal.
func Emit(ctx context.Context, name string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] Failed to marshal %s event: %v", name, err)
		return
	}
	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event: %v", name, err)
	}
}

// StartEventWorker consumes store events. For now it only logs them; the
// admin dashboard reads its aggregates straight from Mongo.
func StartEventWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for store events...")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventWorker] %s %s %s", ev.EntityType, ev.EntityID, ev.Action)
	}
}
