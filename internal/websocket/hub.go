package websocket

import "github.com/rs/zerolog/log"

const publishBuffer = 256

type envelope struct {
	owner   string
	message []byte
}

// Hub maintains the set of active clients and routes each published message
// to the clients subscribed to its owner. All state is owned by the Run loop.
type Hub struct {
	// A map of owner IDs to the set of clients subscribed to them.
	subscriptions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	publish    chan envelope
	count      chan chan int
	done       chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		publish:       make(chan envelope, publishBuffer),
		count:         make(chan chan int),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addSubscription(client)
			log.Info().Str("owner_id", client.OwnerID).Int("total_clients", h.clientCount()).Msg("Client connected")
		case client := <-h.unregister:
			if h.removeSubscription(client) {
				client.close()
				log.Info().Str("owner_id", client.OwnerID).Int("total_clients", h.clientCount()).Msg("Client disconnected")
			}
		case env := <-h.publish:
			h.deliver(env)
		case reply := <-h.count:
			reply <- h.clientCount()
		case <-h.done:
			for _, subs := range h.subscriptions {
				for client := range subs {
					client.close()
				}
			}
			h.subscriptions = make(map[string]map[*Client]bool)
			return
		}
	}
}

// Stop ends the Run loop and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Register subscribes client to its owner's messages.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes client from the hub and disconnects it.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients, or 0 once the hub
// has stopped. It is answered by the Run loop, so every message published
// before the call whose envelope Run has already taken has been delivered.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Publish queues message for every client subscribed to owner. It never
// blocks; when the queue is full the message is dropped.
func (h *Hub) Publish(owner string, message []byte) {
	select {
	case h.publish <- envelope{owner: owner, message: message}:
	default:
		log.Warn().Str("owner_id", owner).Msg("Websocket publish queue full, dropping message")
	}
}

// deliver sends to each subscriber of the owner. A client that cannot keep
// up is disconnected.
func (h *Hub) deliver(env envelope) {
	for client := range h.subscriptions[env.owner] {
		select {
		case client.send <- env.message:
		default:
			h.removeSubscription(client)
			client.close()
			log.Warn().Str("owner_id", client.OwnerID).Msg("Dropping slow websocket client")
		}
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.OwnerID] == nil {
		h.subscriptions[client.OwnerID] = make(map[*Client]bool)
	}
	h.subscriptions[client.OwnerID][client] = true
}

func (h *Hub) removeSubscription(client *Client) bool {
	subs, ok := h.subscriptions[client.OwnerID]
	if !ok || !subs[client] {
		return false
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscriptions, client.OwnerID)
	}
	return true
}

func (h *Hub) clientCount() int {
	n := 0
	for _, subs := range h.subscriptions {
		n += len(subs)
	}
	return n
}
