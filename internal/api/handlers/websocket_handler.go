package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/isdelr/yoga-collections-be/internal/auth"
	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
	ws "github.com/isdelr/yoga-collections-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades requests to websocket connections that receive
// one owner's activity events.
type WebSocketHandler struct {
	hub          *ws.Hub
	requireOwner bool
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler. Browser handshakes are
// accepted only from allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *ws.Hub, requireOwner bool, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		requireOwner: requireOwner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"), allowedOrigins)
			},
		},
	}
}

// originAllowed reports whether a handshake from origin may proceed. Clients
// that send no Origin header are not browsers and are always allowed.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(strings.TrimRight(o, "/"), origin) {
			return true
		}
	}
	return false
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	owner := models.ExternalID(r.URL.Query().Get("userId"))
	if owner.IsZero() {
		respondError(w, r, common.Validation("userId is required"))
		return
	}
	if h.requireOwner {
		if err := auth.AuthorizeOwner(r.Context(), owner); err != nil {
			respondError(w, r, err)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the error response
		log.Warn().Err(err).Str("origin", r.Header.Get("Origin")).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, owner.String())
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(handleIncomingWSMessage)
}

// handleIncomingWSMessage answers the few messages a client may send.
func handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Err(err).Str("owner_id", client.OwnerID).Msg("Error decoding websocket message")
		client.Reply(ws.NewErrorMessage("invalid message"))
		return
	}

	switch msg.Action {
	case "ping":
		reply, _ := json.Marshal(ws.Message{Action: ws.ActionPong})
		client.Reply(reply)
	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Reply(ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}
