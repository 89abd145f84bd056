package realtime

import (
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RunRelay consumes the Redis relay subscription and delivers broadcasts
// that originated on other backend nodes to this node's local subscribers.
// Redis preserves per-channel order, so per-room ordering survives the hop.
// It blocks until the subscription is closed; run it in its own goroutine.
func (h *Hub) RunRelay(pubsub *redis.PubSub) {
	defer pubsub.Close()

	for m := range pubsub.Channel() {
		var frame relayFrame
		if err := json.Unmarshal([]byte(m.Payload), &frame); err != nil {
			log.Printf("ERROR: decoding relay frame: %v", err)
			continue
		}
		if frame.Origin == h.nodeID {
			// Already delivered locally at publish time.
			continue
		}

		var projectID string
		switch {
		case frame.Event.Message != nil:
			projectID = frame.Event.Message.ProjectID
		case frame.Event.Presence != nil:
			projectID = frame.Event.Presence.ProjectID
		default:
			continue
		}
		h.broadcastLocal(projectID, frame.Event)
	}
}
