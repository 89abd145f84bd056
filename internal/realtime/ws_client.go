package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"collabgo/backend/internal/config"
	"collabgo/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements the Client interface over gorilla/websocket.
type WebSocketClient struct {
	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.Event

	session   *Conn
	done      chan struct{}
	closeOnce sync.Once
}

func NewWebSocketClient(hub *Hub, conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{
		Conn: conn,
		Hub:  hub,
		Send: make(chan models.Event, config.SendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Close signals the pumps to stop. The Send channel is never closed: the hub
// and the read loop may still be sending into it from other goroutines, and
// a send into a closed channel would panic the process. Events queued after
// Close are simply dropped with the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Attach binds the admitted hub session to this transport. Must be called
// before Run.
func (c *WebSocketClient) Attach(session *Conn) { c.session = session }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Disconnect(c.session)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var env models.ClientEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("Error decoding frame from %s: %v", c.session.Principal.ID, err)
			continue
		}

		switch env.Type {
		case models.ClientTypeSendMessage:
			if err := c.Hub.Publish(c.session, env.ProjectID, env.Text); err != nil {
				// Reported to the sender only; other subscribers see nothing.
				c.deliver(models.ErrorEvent(PublishCode(err), err.Error()))
			}
		default:
			log.Printf("Ignoring unknown frame type %q from %s", env.Type, c.session.Principal.ID)
		}
	}
}

// deliver queues an event for this client without blocking the read loop.
func (c *WebSocketClient) deliver(evt models.Event) {
	select {
	case c.Send <- evt:
	default:
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			// Torn down by the hub; close the socket, which also stops
			// the read pump.
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case evt := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(evt)
			if err != nil {
				log.Printf("Error encoding event: %v", err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Drain whatever else is already queued into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				next := <-c.Send
				if extra, err := json.Marshal(next); err == nil {
					w.Write([]byte{'\n'})
					w.Write(extra)
				}
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
