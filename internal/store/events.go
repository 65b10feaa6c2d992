package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// EventStore persists the activity log.
type EventStore struct {
	db  database.DBTX
	now func() time.Time
}

// NewEventStore creates a new EventStore.
func NewEventStore(db database.DBTX) *EventStore {
	return &EventStore{db: db, now: utcNow}
}

// Create logs a new event, filling in its ID and CreatedAt.
func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	event.CreatedAt = s.now()

	var pose sql.NullString
	if event.PoseID != nil {
		pose = sql.NullString{String: event.PoseID.String(), Valid: true}
	}

	const query = `
		INSERT INTO events (owner_id, type, collection_id, pose_id, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		event.OwnerID.String(), event.Type, event.CollectionID, pose, event.Message, event.CreatedAt,
	).Scan(&event.ID)
	if err != nil {
		return classify("create event", err)
	}
	return nil
}

// ListByOwner retrieves the owner's most recent events, newest first.
func (s *EventStore) ListByOwner(ctx context.Context, owner models.ExternalID, limit int) ([]models.Event, error) {
	const query = `
		SELECT id, owner_id, type, collection_id, pose_id, message, created_at
		FROM events
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, owner.String(), limit)
	if err != nil {
		return nil, classify("list events", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var ownerID string
		var pose sql.NullString
		if err := rows.Scan(&event.ID, &ownerID, &event.Type, &event.CollectionID, &pose, &event.Message, &event.CreatedAt); err != nil {
			return nil, classify("scan event", err)
		}
		event.OwnerID = models.ExternalID(ownerID)
		if pose.Valid {
			p := models.ExternalID(pose.String)
			event.PoseID = &p
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list events", err)
	}
	return events, nil
}
