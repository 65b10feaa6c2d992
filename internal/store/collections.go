package store

import (
	"context"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// CollectionStore persists named collections.
type CollectionStore struct {
	db  database.DBTX
	now func() time.Time
}

// NewCollectionStore creates a new CollectionStore.
func NewCollectionStore(db database.DBTX) *CollectionStore {
	return &CollectionStore{db: db, now: utcNow}
}

// Create inserts a collection for owner. Names are not unique.
func (s *CollectionStore) Create(ctx context.Context, owner models.ExternalID, name string) (models.Collection, error) {
	c := models.Collection{
		OwnerID:   owner,
		Name:      name,
		CreatedAt: s.now(),
	}

	const query = `INSERT INTO collections (owner_id, name, created_at) VALUES (?, ?, ?) RETURNING id`
	if err := s.db.QueryRowContext(ctx, query, c.OwnerID.String(), c.Name, c.CreatedAt).Scan(&c.ID); err != nil {
		return models.Collection{}, classify("create collection", err)
	}
	return c, nil
}

// Get retrieves a single collection by its ID.
func (s *CollectionStore) Get(ctx context.Context, id int64) (models.Collection, error) {
	const query = `SELECT id, owner_id, name, created_at FROM collections WHERE id = ?`
	c, err := scanCollection(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.Collection{}, classify("get collection", err)
	}
	return c, nil
}

// Exists reports whether a collection with the given ID exists.
func (s *CollectionStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM collections WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, classify("check collection", err)
	}
	return exists, nil
}

// ListByOwner returns the owner's collections in insertion order.
func (s *CollectionStore) ListByOwner(ctx context.Context, owner models.ExternalID) ([]models.Collection, error) {
	const query = `SELECT id, owner_id, name, created_at FROM collections WHERE owner_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, owner.String())
	if err != nil {
		return nil, classify("list collections", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, classify("scan collection", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list collections", err)
	}
	return collections, nil
}

func scanCollection(row scanner) (models.Collection, error) {
	var c models.Collection
	var owner string
	if err := row.Scan(&c.ID, &owner, &c.Name, &c.CreatedAt); err != nil {
		return models.Collection{}, err
	}
	c.OwnerID = models.ExternalID(owner)
	return c, nil
}
