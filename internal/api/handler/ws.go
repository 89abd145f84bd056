package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"collabgo/backend/internal/config"
	"collabgo/backend/internal/models"
	"collabgo/backend/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection and runs the admission
// handshake. The credential arrives in the first websocket frame rather
// than a request header, so connection auth stays independent of the HTTP
// session. Admission failure closes the socket with only the error class.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	token, err := readAuthFrame(conn)
	if err != nil {
		rejectAndClose(conn, handshakeCode(err))
		return
	}

	client := realtime.NewWebSocketClient(h.Hub, conn)
	session, err := h.Hub.Connect(token, client)
	if err != nil {
		rejectAndClose(conn, realtime.AdmissionCode(err))
		return
	}

	client.Attach(session)
	client.Run()
}

// errMalformedHandshake marks a handshake frame that arrived but could not
// be read as an auth envelope. It classifies differently from a frame that
// never arrived at all.
var errMalformedHandshake = errors.New("malformed handshake frame")

// readAuthFrame waits for the handshake frame carrying the bearer token.
func readAuthFrame(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(config.AuthFrameTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return parseAuthFrame(raw)
}

func parseAuthFrame(raw []byte) (string, error) {
	var env models.ClientEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: %v", errMalformedHandshake, err)
	}
	if env.Type != models.ClientTypeAuth {
		return "", fmt.Errorf("%w: unexpected type %q", errMalformedHandshake, env.Type)
	}
	return env.Token, nil
}

// handshakeCode picks the error class for a failed handshake: a frame that
// was presented but unreadable is an invalid credential, while an absent or
// timed-out frame is a missing one.
func handshakeCode(err error) string {
	if errors.Is(err, errMalformedHandshake) {
		return models.CodeInvalidCredential
	}
	return models.CodeMissingCredential
}

func rejectAndClose(conn *websocket.Conn, code string) {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	conn.WriteJSON(models.ErrorEvent(code, "connection rejected"))
	conn.Close()
}
