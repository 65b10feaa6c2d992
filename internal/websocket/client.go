package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is a single websocket connection subscribed to one owner's events.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// OwnerID is the owner whose events this client receives.
	OwnerID string

	// Buffered channel of outbound messages. It is never closed; the hub
	// signals disconnection by closing done.
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client for conn subscribed to owner.
func NewClient(hub *Hub, conn *websocket.Conn, owner string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		OwnerID: owner,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
}

// Done is closed once the hub has disconnected the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Reply queues a message for this client only. It never blocks and reports
// whether the message was queued.
func (c *Client) Reply(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// close marks the client disconnected. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// ReadPump reads messages from the connection until it fails and hands each
// one to handle. It unregisters the client on return.
func (c *Client) ReadPump(handle func(*Client, []byte)) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("owner_id", c.OwnerID).Msg("Websocket closed unexpectedly")
			}
			return
		}
		if handle != nil {
			handle(c, message)
		}
	}
}

// WritePump writes queued messages and keepalive pings to the connection
// until the hub disconnects the client or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
