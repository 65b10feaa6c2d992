package store

import (
	"context"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// ItemStore persists the ordered membership of poses in collections.
type ItemStore struct {
	db  database.DBTX
	now func() time.Time
}

// NewItemStore creates a new ItemStore.
func NewItemStore(db database.DBTX) *ItemStore {
	return &ItemStore{db: db, now: utcNow}
}

// Add appends pose to the end of a collection. The position is computed in
// the same statement as the insert, and the unique index on
// (collection_id, pose_id) rejects a second membership of the same pose with
// common.ErrConflict even when two requests race. An unknown collection
// yields common.ErrNotFound through the foreign key.
func (s *ItemStore) Add(ctx context.Context, collectionID int64, pose models.ExternalID) (models.Item, error) {
	item := models.Item{
		CollectionID: collectionID,
		PoseID:       pose,
		CreatedAt:    s.now(),
	}

	const query = `
		INSERT INTO collection_items (collection_id, pose_id, position, created_at)
		SELECT ?, ?, COALESCE(MAX(position) + 1, 0), ?
		FROM collection_items
		WHERE collection_id = ?
		RETURNING id, position`
	err := s.db.QueryRowContext(ctx, query, collectionID, pose.String(), item.CreatedAt, collectionID).
		Scan(&item.ID, &item.Position)
	if err != nil {
		return models.Item{}, classify("add item", err)
	}
	return item, nil
}

// Contains reports whether pose is already a member of the collection.
func (s *ItemStore) Contains(ctx context.Context, collectionID int64, pose models.ExternalID) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM collection_items WHERE collection_id = ? AND pose_id = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, collectionID, pose.String()).Scan(&exists); err != nil {
		return false, classify("check item", err)
	}
	return exists, nil
}

// ListByCollection returns the collection's items by position, then creation
// time, then id. It does not distinguish a missing collection from an empty one.
func (s *ItemStore) ListByCollection(ctx context.Context, collectionID int64) ([]models.Item, error) {
	const query = `
		SELECT id, collection_id, pose_id, position, created_at
		FROM collection_items
		WHERE collection_id = ?
		ORDER BY position ASC, created_at ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		var pose string
		if err := rows.Scan(&item.ID, &item.CollectionID, &pose, &item.Position, &item.CreatedAt); err != nil {
			return nil, classify("scan item", err)
		}
		item.PoseID = models.ExternalID(pose)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list items", err)
	}
	return items, nil
}
