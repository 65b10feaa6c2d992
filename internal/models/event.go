package models

import "time"

// Event types.
const (
	EventCollectionCreated = "collection.created"
	EventItemAdded         = "item.added"
)

// Event represents a recorded change to one owner's collections.
type Event struct {
	ID           int64       `json:"id"`
	OwnerID      ExternalID  `json:"userId"`
	Type         string      `json:"type"`
	CollectionID int64       `json:"collectionId"`
	PoseID       *ExternalID `json:"poseId,omitempty"` // Only set for item events
	Message      string      `json:"message"`
	CreatedAt    time.Time   `json:"createdAt"`
}
