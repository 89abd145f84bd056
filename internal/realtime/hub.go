package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"collabgo/backend/internal/auth"
	"collabgo/backend/internal/config"
	"collabgo/backend/internal/models"
	"collabgo/backend/internal/storage"

	"github.com/google/uuid"
)

// Publish errors, reported to the publishing connection only. They never
// close the connection and never reach other subscribers.
var (
	ErrNotSubscribed = errors.New("not subscribed to room")
	ErrEmptyText     = errors.New("empty message text")
	ErrPersistence   = errors.New("message could not be persisted")
)

// Hub owns every live connection and its room subscriptions, and fans
// published messages out to all subscribers of a room. The registry is the
// only shared mutable state in the realtime core; all mutation goes through
// Connect, Publish and Disconnect.
type Hub struct {
	auth     *auth.Service
	resolver *MembershipResolver
	store    storage.Storage

	// nodeID tags relayed frames so this node never re-delivers its own.
	nodeID string

	mu    sync.Mutex
	conns map[*Conn]bool
	rooms map[string]*room
}

// room is one project's broadcast channel. It exists only while at least one
// connection is subscribed; there is no persisted representation.
type room struct {
	id string

	// pub serializes persist+broadcast so publishes to the same room can
	// never reorder relative to each other. Different rooms stay fully
	// concurrent.
	pub sync.Mutex

	mu      sync.Mutex
	members map[*Conn]bool
}

// Conn is one admitted connection. It is created on successful
// authentication, owned exclusively by the hub, and destroyed on transport
// close; its subscriptions drop implicitly with it.
type Conn struct {
	Principal models.Principal

	client Client
	rooms  map[string]bool
}

// Rooms returns the ids of the rooms this connection is subscribed to.
func (c *Conn) Rooms() []string {
	ids := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func NewHub(authSvc *auth.Service, store storage.Storage) *Hub {
	return &Hub{
		auth:     authSvc,
		resolver: NewMembershipResolver(store),
		store:    store,
		nodeID:   uuid.New().String(),
		conns:    make(map[*Conn]bool),
		rooms:    make(map[string]*room),
	}
}

// Connect authenticates the credential, resolves the principal's project
// rooms and subscribes the new connection to each of them. On any failure
// nothing is registered and the caller must close the transport; admission
// is all-or-nothing.
func (h *Hub) Connect(credential string, client Client) (*Conn, error) {
	principal, err := h.auth.Authenticate(credential)
	if err != nil {
		return nil, err
	}

	roomIDs, err := h.resolver.ResolveRooms(*principal)
	if err != nil {
		// Fail closed: never admit with partial room subscriptions.
		return nil, fmt.Errorf("resolving rooms for %s: %w", principal.ID, err)
	}

	conn := &Conn{
		Principal: *principal,
		client:    client,
		rooms:     make(map[string]bool, len(roomIDs)),
	}

	h.mu.Lock()
	h.conns[conn] = true
	for _, id := range roomIDs {
		r := h.rooms[id]
		if r == nil {
			r = &room{id: id, members: make(map[*Conn]bool)}
			h.rooms[id] = r
		}
		conn.rooms[id] = true
		r.mu.Lock()
		r.members[conn] = true
		r.mu.Unlock()
	}
	h.mu.Unlock()

	log.Printf("User %s connected, subscribed to %d rooms", principal.ID, len(roomIDs))

	for _, id := range roomIDs {
		if err := h.store.AddOnlineUser(id, principal.ID); err != nil {
			log.Printf("WARNING: presence update failed for room %s: %v", id, err)
		}
		h.broadcastPresence(id)
		h.replayHistory(conn, id)
	}

	return conn, nil
}

// Publish persists one chat message and broadcasts it to every subscriber
// of the project's room, the sender included; the sender renders the
// round-tripped broadcast instead of echoing locally. Rejections go to the
// caller only and never fan out.
func (h *Hub) Publish(conn *Conn, projectID, text string) error {
	h.mu.Lock()
	subscribed := h.conns[conn] && conn.rooms[projectID]
	r := h.rooms[projectID]
	h.mu.Unlock()

	if !subscribed || r == nil {
		return ErrNotSubscribed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	r.pub.Lock()
	defer r.pub.Unlock()

	msg := &models.Message{
		ProjectID: projectID,
		SenderID:  conn.Principal.ID,
		Text:      text,
	}
	if err := h.store.AppendMessage(msg); err != nil {
		// Nothing was saved, so nothing may be broadcast.
		log.Printf("ERROR: persisting message in room %s: %v", projectID, err)
		return ErrPersistence
	}

	evt := models.MessageEvent(*msg, models.SenderInfo{
		ID:   conn.Principal.ID,
		Name: conn.Principal.Name,
	})

	h.relayOut(projectID, evt)
	r.broadcast(h, evt)
	return nil
}

// Disconnect removes the connection and all its subscriptions from hub
// state. Calling it again for the same connection is a no-op.
func (h *Hub) Disconnect(conn *Conn) {
	h.mu.Lock()
	if !h.conns[conn] {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn)

	roomIDs := make([]string, 0, len(conn.rooms))
	for id := range conn.rooms {
		roomIDs = append(roomIDs, id)
		r := h.rooms[id]
		if r == nil {
			continue
		}
		r.mu.Lock()
		delete(r.members, conn)
		empty := len(r.members) == 0
		r.mu.Unlock()
		if empty {
			delete(h.rooms, id)
		}
	}
	h.mu.Unlock()

	conn.client.Close()
	log.Printf("User %s disconnected", conn.Principal.ID)

	for _, id := range roomIDs {
		if err := h.store.RemoveOnlineUser(id, conn.Principal.ID); err != nil {
			log.Printf("WARNING: presence update failed for room %s: %v", id, err)
		}
		h.broadcastPresence(id)
	}
}

// broadcast delivers one event to every current member of the room. A slow
// member must not stall delivery to the rest: its event is dropped and the
// connection is torn down out of band.
func (r *room) broadcast(h *Hub, evt models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for member := range r.members {
		select {
		case member.client.GetSendChannel() <- evt:
		default:
			go h.Disconnect(member)
		}
	}
}

// broadcastLocal fans an event out to the local subscribers of a room, if
// any are connected to this node.
func (h *Hub) broadcastLocal(projectID string, evt models.Event) {
	h.mu.Lock()
	r := h.rooms[projectID]
	h.mu.Unlock()
	if r == nil {
		return
	}
	r.broadcast(h, evt)
}

func (h *Hub) broadcastPresence(projectID string) {
	online, err := h.store.GetOnlineUsers(projectID)
	if err != nil {
		log.Printf("WARNING: reading presence for room %s: %v", projectID, err)
		return
	}
	sort.Strings(online)
	evt := models.Event{
		Type: models.EventTypePresence,
		Presence: &models.PresencePayload{
			ProjectID: projectID,
			Online:    online,
			Count:     len(online),
		},
	}
	// The online set lives in Redis, so the payload is already
	// cluster-wide; the relay carries the event to subscribers whose
	// connection lives on another node.
	h.relayOut(projectID, evt)
	h.broadcastLocal(projectID, evt)
}

// replayHistory sends the room's most recent messages to the new connection
// only, so a fresh client renders context without a separate fetch.
func (h *Hub) replayHistory(conn *Conn, projectID string) {
	msgs, err := h.store.ListRecentMessages(projectID, config.HistoryReplayLimit, 0)
	if err != nil {
		log.Printf("WARNING: loading history for room %s: %v", projectID, err)
		return
	}
	for _, msg := range msgs {
		evt := models.MessageEvent(msg, models.SenderInfo{ID: msg.SenderID, Name: msg.SenderName})
		select {
		case conn.client.GetSendChannel() <- evt:
		default:
			return
		}
	}
}

// relayFrame is the wire form published to Redis so other backend nodes can
// deliver the broadcast to their own subscribers.
type relayFrame struct {
	Origin string       `json:"origin"`
	Event  models.Event `json:"event"`
}

func (h *Hub) relayOut(projectID string, evt models.Event) {
	payload, err := json.Marshal(relayFrame{Origin: h.nodeID, Event: evt})
	if err != nil {
		log.Printf("ERROR: encoding relay frame: %v", err)
		return
	}
	if err := h.store.PublishMessage(projectID, payload); err != nil {
		// Local delivery already happened or is about to; the relay is
		// best-effort between nodes.
		log.Printf("WARNING: relay publish failed for room %s: %v", projectID, err)
	}
}

// AdmissionCode maps a Connect error to the error class sent to the client.
// Internal detail never crosses the boundary.
func AdmissionCode(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return models.CodeMissingCredential
	case errors.Is(err, auth.ErrInvalidCredential):
		return models.CodeInvalidCredential
	case errors.Is(err, auth.ErrPrincipalNotFound):
		return models.CodePrincipalNotFound
	default:
		return models.CodeAdmissionFailed
	}
}

// PublishCode maps a Publish error to the error class sent to the sender.
func PublishCode(err error) string {
	switch {
	case errors.Is(err, ErrNotSubscribed):
		return models.CodeNotSubscribed
	case errors.Is(err, ErrEmptyText):
		return models.CodeEmptyText
	default:
		return models.CodePersistenceFailure
	}
}
