package realtime

import "collabgo/backend/internal/models"

// Client is the transport side of one live connection. It abstracts the
// underlying mechanism (WebSocket in production, in-memory fakes in tests)
// so the hub can fan events out without knowing how they reach the wire.
type Client interface {
	// GetSendChannel returns the channel the hub pushes events destined for
	// this client into. It is drained by the transport's write loop and is
	// send-only from the hub's point of view. The implementation must never
	// close it: the hub and the read loop keep sending, non-blocking, until
	// every reference to the connection is gone.
	GetSendChannel() chan<- models.Event

	// Close shuts down the transport. Closing twice must be safe, and so
	// must sends racing Close; the hub may tear a slow consumer down while
	// a broadcast or an error delivery to it is still in flight.
	Close()
}
