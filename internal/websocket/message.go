package websocket

import (
	"encoding/json"

	"github.com/isdelr/yoga-collections-be/internal/models"
)

// Message actions.
const (
	ActionEvent = "event"
	ActionError = "error"
	ActionPong  = "pong"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an activity event for delivery to subscribers.
func NewEventMessage(event models.Event) ([]byte, error) {
	return json.Marshal(Message{Action: ActionEvent, Payload: event})
}

// NewErrorMessage encodes an error reply to a single client.
func NewErrorMessage(text string) []byte {
	msg, _ := json.Marshal(Message{Action: ActionError, Payload: map[string]string{"error": text}})
	return msg
}
