package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// CollectionServiceProvider defines the interface for collection services.
type CollectionServiceProvider interface {
	CreateCollection(ctx context.Context, owner models.ExternalID, name string) (models.Collection, error)
	ListCollections(ctx context.Context, owner models.ExternalID) ([]models.Collection, error)
	GetCollection(ctx context.Context, id int64) (models.Collection, error)
	AddItem(ctx context.Context, collectionID int64, pose models.ExternalID) (models.Item, error)
	ListItems(ctx context.Context, collectionID int64) ([]models.Item, error)
}

// CollectionRepository is the collection persistence the service needs.
type CollectionRepository interface {
	Create(ctx context.Context, owner models.ExternalID, name string) (models.Collection, error)
	Get(ctx context.Context, id int64) (models.Collection, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListByOwner(ctx context.Context, owner models.ExternalID) ([]models.Collection, error)
}

// ItemRepository is the membership persistence the service needs.
type ItemRepository interface {
	Add(ctx context.Context, collectionID int64, pose models.ExternalID) (models.Item, error)
	Contains(ctx context.Context, collectionID int64, pose models.ExternalID) (bool, error)
	ListByCollection(ctx context.Context, collectionID int64) ([]models.Item, error)
}

// EventRecorder records activity after a successful change.
type EventRecorder interface {
	Record(ctx context.Context, event models.Event)
}

// CollectionService validates collection requests and maps store outcomes to
// the collection errors of package common.
type CollectionService struct {
	collections CollectionRepository
	items       ItemRepository
	events      EventRecorder
}

// NewCollectionService creates a new CollectionService. events may be nil.
func NewCollectionService(collections CollectionRepository, items ItemRepository, events EventRecorder) *CollectionService {
	return &CollectionService{collections: collections, items: items, events: events}
}

// CreateCollection creates a named collection for owner.
func (s *CollectionService) CreateCollection(ctx context.Context, owner models.ExternalID, name string) (models.Collection, error) {
	name = strings.TrimSpace(name)
	if owner.IsZero() || name == "" {
		return models.Collection{}, common.Validation("userId and name are required")
	}

	c, err := s.collections.Create(ctx, models.ExternalID(owner.String()), name)
	if err != nil {
		return models.Collection{}, err
	}

	s.record(ctx, models.Event{
		OwnerID:      c.OwnerID,
		Type:         models.EventCollectionCreated,
		CollectionID: c.ID,
		Message:      fmt.Sprintf("Collection '%s' created", c.Name),
	})
	return c, nil
}

// ListCollections returns the owner's collections in creation order.
func (s *CollectionService) ListCollections(ctx context.Context, owner models.ExternalID) ([]models.Collection, error) {
	if owner.IsZero() {
		return nil, common.Validation("userId is required")
	}
	return s.collections.ListByOwner(ctx, models.ExternalID(owner.String()))
}

// GetCollection returns a single collection or common.ErrCollectionNotFound.
func (s *CollectionService) GetCollection(ctx context.Context, id int64) (models.Collection, error) {
	c, err := s.collections.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Collection{}, common.ErrCollectionNotFound
		}
		return models.Collection{}, err
	}
	return c, nil
}

// AddItem appends pose to the collection. The membership check here only
// saves a write; the unique index decides when two requests race.
func (s *CollectionService) AddItem(ctx context.Context, collectionID int64, pose models.ExternalID) (models.Item, error) {
	if pose.IsZero() {
		return models.Item{}, common.Validation("poseId is required")
	}
	pose = models.ExternalID(pose.String())

	c, err := s.GetCollection(ctx, collectionID)
	if err != nil {
		return models.Item{}, err
	}

	exists, err := s.items.Contains(ctx, collectionID, pose)
	if err != nil {
		return models.Item{}, err
	}
	if exists {
		return models.Item{}, common.ErrDuplicateItem
	}

	item, err := s.items.Add(ctx, collectionID, pose)
	switch {
	case errors.Is(err, common.ErrConflict):
		return models.Item{}, common.ErrDuplicateItem
	case errors.Is(err, common.ErrNotFound):
		return models.Item{}, common.ErrCollectionNotFound
	case err != nil:
		return models.Item{}, err
	}

	s.record(ctx, models.Event{
		OwnerID:      c.OwnerID,
		Type:         models.EventItemAdded,
		CollectionID: c.ID,
		PoseID:       &item.PoseID,
		Message:      fmt.Sprintf("Pose %s added to '%s'", item.PoseID, c.Name),
	})
	return item, nil
}

// ListItems returns the collection's items in display order.
func (s *CollectionService) ListItems(ctx context.Context, collectionID int64) ([]models.Item, error) {
	ok, err := s.collections.Exists(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrCollectionNotFound
	}
	return s.items.ListByCollection(ctx, collectionID)
}

func (s *CollectionService) record(ctx context.Context, event models.Event) {
	if s.events != nil {
		s.events.Record(ctx, event)
	}
}
