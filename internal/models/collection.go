package models

import "time"

// Collection is a user-owned named list of pose references.
type Collection struct {
	ID        int64      `json:"id"`
	OwnerID   ExternalID `json:"userId"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Item is the membership of one pose in one collection. Items of a collection
// are displayed by Position, then CreatedAt, then ID.
type Item struct {
	ID           int64      `json:"id"`
	CollectionID int64      `json:"collectionId"`
	PoseID       ExternalID `json:"poseId"`
	Position     int        `json:"position"`
	CreatedAt    time.Time  `json:"createdAt"`
}
