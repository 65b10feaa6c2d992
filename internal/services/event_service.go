package services

import (
	"context"

	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/isdelr/yoga-collections-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, event models.Event)
	Recent(ctx context.Context, owner models.ExternalID, limit int) ([]models.Event, error)
}

// EventRepository is the persistence the event service needs.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	ListByOwner(ctx context.Context, owner models.ExternalID, limit int) ([]models.Event, error)
}

// EventPublisher pushes a message to the live subscribers of one owner.
type EventPublisher interface {
	Publish(owner string, message []byte)
}

// EventService provides business logic for the activity log.
type EventService struct {
	events    EventRepository
	publisher EventPublisher
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(events EventRepository, publisher EventPublisher) *EventService {
	return &EventService{events: events, publisher: publisher}
}

// Record logs an event and publishes it to the owner's subscribers. Failures
// are logged and never returned; the change that produced the event has
// already been committed.
func (s *EventService) Record(ctx context.Context, event models.Event) {
	if err := s.events.Create(ctx, &event); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Str("owner_id", event.OwnerID.String()).Msg("Failed to record event")
		return
	}
	if s.publisher == nil {
		return
	}

	msg, err := websocket.NewEventMessage(event)
	if err != nil {
		log.Error().Err(err).Int64("event_id", event.ID).Msg("Failed to encode event message")
		return
	}
	s.publisher.Publish(event.OwnerID.String(), msg)
}

// Recent returns the owner's newest events. A non-positive limit means the
// default, and the limit is capped.
func (s *EventService) Recent(ctx context.Context, owner models.ExternalID, limit int) ([]models.Event, error) {
	if owner.IsZero() {
		return nil, common.Validation("userId is required")
	}
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	return s.events.ListByOwner(ctx, owner, limit)
}
