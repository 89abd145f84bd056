package models

import "time"

// Wire types for the realtime channel. The event set is closed: everything
// the server pushes is one of the Event types below, and everything a client
// sends is a ClientEnvelope. Payloads are validated at the boundary before
// business logic sees them.

// Client-to-server envelope types.
const (
	ClientTypeAuth        = "auth"
	ClientTypeSendMessage = "sendMessage"
)

// Server-to-client event types.
const (
	EventTypeMessage  = "receiveMessage"
	EventTypePresence = "presence"
	EventTypeError    = "error"
)

// Error codes carried by EventTypeError. Admission codes close the
// connection; publish codes are delivered to the sender only.
const (
	CodeMissingCredential  = "missing_credential"
	CodeInvalidCredential  = "invalid_credential"
	CodePrincipalNotFound  = "principal_not_found"
	CodeAdmissionFailed    = "admission_failed"
	CodeNotSubscribed      = "not_subscribed"
	CodeEmptyText          = "empty_text"
	CodePersistenceFailure = "persistence_failure"
)

// ClientEnvelope is a single inbound frame. Type selects which fields apply.
type ClientEnvelope struct {
	Type      string `json:"type"`
	Token     string `json:"token,omitempty"`     // auth
	ProjectID string `json:"projectId,omitempty"` // sendMessage
	Text      string `json:"text,omitempty"`      // sendMessage
}

// Event is a single outbound frame. Exactly one payload field is set,
// matching Type.
type Event struct {
	Type     string           `json:"type"`
	Message  *MessagePayload  `json:"message,omitempty"`
	Presence *PresencePayload `json:"presence,omitempty"`
	Error    *ErrorPayload    `json:"error,omitempty"`
}

// SenderInfo identifies the author of a broadcast message.
type SenderInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MessagePayload is the broadcast form of a persisted message. ID and
// CreatedAt always come from the store, never from the publishing client.
type MessagePayload struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Sender    SenderInfo `json:"sender"`
	ProjectID string     `json:"projectId"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PresencePayload announces who is currently online in a project room.
type PresencePayload struct {
	ProjectID string   `json:"projectId"`
	Online    []string `json:"online"`
	Count     int      `json:"count"`
}

// ErrorPayload reports an error class to one client. Code is the stable
// contract; Message is advisory text only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageEvent wraps a persisted message into its broadcast event.
func MessageEvent(msg Message, sender SenderInfo) Event {
	return Event{
		Type: EventTypeMessage,
		Message: &MessagePayload{
			ID:        msg.ID,
			Text:      msg.Text,
			Sender:    sender,
			ProjectID: msg.ProjectID,
			CreatedAt: msg.CreatedAt,
		},
	}
}

// ErrorEvent builds an error event from a code and advisory text.
func ErrorEvent(code, message string) Event {
	return Event{
		Type:  EventTypeError,
		Error: &ErrorPayload{Code: code, Message: message},
	}
}
