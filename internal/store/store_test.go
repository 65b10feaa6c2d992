package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

// fixedClock returns a clock that advances by one millisecond per call.
func fixedClock() func() time.Time {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
}

func TestUserStore_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u, err := s.Create(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	got, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash-1", got.PasswordHash)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)
}

func TestUserStore_DuplicateDoesNotOverwrite(t *testing.T) {
	db := setupDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	_, err := s.Create(ctx, "alice", "original")
	require.NoError(t, err)

	_, err = s.Create(ctx, "alice", "replacement")
	require.ErrorIs(t, err, common.ErrConflict)

	got, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "original", got.PasswordHash)
}

func TestUserStore_GetUnknown(t *testing.T) {
	s := NewUserStore(setupDB(t))
	_, err := s.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCollectionStore_CreateGetList(t *testing.T) {
	db := setupDB(t)
	s := NewCollectionStore(db)
	ctx := context.Background()

	c1, err := s.Create(ctx, "0", "Morning Stretches")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c1.ID)
	assert.Equal(t, models.ExternalID("0"), c1.OwnerID)

	_, err = s.Create(ctx, "other", "Evening")
	require.NoError(t, err)
	// same name twice is allowed
	c3, err := s.Create(ctx, "0", "Morning Stretches")
	require.NoError(t, err)

	list, err := s.ListByOwner(ctx, "0")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c1.ID, list[0].ID)
	assert.Equal(t, c3.ID, list[1].ID)

	again, err := s.ListByOwner(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, list, again)

	got, err := s.Get(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Stretches", got.Name)

	ok, err := s.Exists(ctx, c1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, 999)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCollectionStore_ListUnknownOwnerIsEmpty(t *testing.T) {
	s := NewCollectionStore(setupDB(t))
	list, err := s.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestItemStore_AddAssignsPositions(t *testing.T) {
	db := setupDB(t)
	cs := NewCollectionStore(db)
	is := NewItemStore(db)
	is.now = fixedClock()
	ctx := context.Background()

	c, err := cs.Create(ctx, "0", "Morning Stretches")
	require.NoError(t, err)
	other, err := cs.Create(ctx, "0", "Other")
	require.NoError(t, err)

	for i, pose := range []models.ExternalID{"7", "3", "12"} {
		item, err := is.Add(ctx, c.ID, pose)
		require.NoError(t, err)
		assert.Equal(t, i, item.Position)
		assert.Equal(t, pose, item.PoseID)
	}

	// positions are per collection
	item, err := is.Add(ctx, other.ID, "7")
	require.NoError(t, err)
	assert.Equal(t, 0, item.Position)

	items, err := is.ListByCollection(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, models.ExternalID("7"), items[0].PoseID)
	assert.Equal(t, models.ExternalID("3"), items[1].PoseID)
	assert.Equal(t, models.ExternalID("12"), items[2].PoseID)
}

func TestItemStore_DuplicateRejectedByIndex(t *testing.T) {
	db := setupDB(t)
	c, err := NewCollectionStore(db).Create(context.Background(), "0", "c")
	require.NoError(t, err)
	is := NewItemStore(db)
	ctx := context.Background()

	_, err = is.Add(ctx, c.ID, "7")
	require.NoError(t, err)
	_, err = is.Add(ctx, c.ID, "7")
	require.ErrorIs(t, err, common.ErrConflict)

	ok, err := is.Contains(ctx, c.ID, "7")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = is.Contains(ctx, c.ID, "8")
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := is.ListByCollection(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemStore_UnknownCollectionViolatesForeignKey(t *testing.T) {
	is := NewItemStore(setupDB(t))
	_, err := is.Add(context.Background(), 42, "7")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestItemStore_OrderBreaksTiesByCreationThenID(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	c, err := NewCollectionStore(db).Create(ctx, "0", "c")
	require.NoError(t, err)

	// rows written by hand to force equal positions
	_, err = db.ExecContext(ctx, `
		INSERT INTO collection_items (collection_id, pose_id, position, created_at) VALUES
		(?, 'late', 0, '2026-01-01 10:00:02'),
		(?, 'early', 0, '2026-01-01 10:00:01'),
		(?, 'first', -1, '2026-01-01 10:00:03'),
		(?, 'same-a', 1, '2026-01-01 10:00:00'),
		(?, 'same-b', 1, '2026-01-01 10:00:00')`,
		c.ID, c.ID, c.ID, c.ID, c.ID)
	require.NoError(t, err)

	items, err := NewItemStore(db).ListByCollection(ctx, c.ID)
	require.NoError(t, err)

	var got []string
	for _, it := range items {
		got = append(got, it.PoseID.String())
	}
	assert.Equal(t, []string{"first", "early", "late", "same-a", "same-b"}, got)
}

func TestItemStore_ConcurrentIdenticalAdds(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(ctx, filepath.Join(t.TempDir(), "race.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))

	c, err := NewCollectionStore(db).Create(ctx, "0", "race")
	require.NoError(t, err)
	is := NewItemStore(db)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = is.Add(ctx, c.ID, "7")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, common.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	items, err := is.ListByCollection(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestEventStore_CreateAndList(t *testing.T) {
	db := setupDB(t)
	es := NewEventStore(db)
	es.now = fixedClock()
	ctx := context.Background()

	pose := models.ExternalID("7")
	first := &models.Event{OwnerID: "0", Type: models.EventCollectionCreated, CollectionID: 1, Message: "created"}
	second := &models.Event{OwnerID: "0", Type: models.EventItemAdded, CollectionID: 1, PoseID: &pose, Message: "added"}
	require.NoError(t, es.Create(ctx, first))
	require.NoError(t, es.Create(ctx, second))
	require.NoError(t, es.Create(ctx, &models.Event{OwnerID: "1", Type: models.EventCollectionCreated, CollectionID: 2, Message: "x"}))

	events, err := es.ListByOwner(ctx, "0", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, second.ID, events[0].ID)
	require.NotNil(t, events[0].PoseID)
	assert.Equal(t, pose, *events[0].PoseID)
	assert.Nil(t, events[1].PoseID)

	limited, err := es.ListByOwner(ctx, "0", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestClassify_DriverFailuresBecomeStoreErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_id, name, created_at FROM collections WHERE owner_id = ?`)).
		WithArgs("0").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectQuery(`(?s)^\s*INSERT INTO collection_items`).
		WillReturnError(errors.New("database is locked"))

	_, err = NewCollectionStore(db).ListByOwner(context.Background(), "0")
	require.ErrorIs(t, err, common.ErrStore)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NotErrorIs(t, err, common.ErrConflict)

	_, err = NewItemStore(db).Add(context.Background(), 1, "7")
	require.ErrorIs(t, err, common.ErrStore)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify_NoRows(t *testing.T) {
	err := classify("get", fmt.Errorf("wrapped: %w", sql.ErrNoRows))
	assert.ErrorIs(t, err, common.ErrNotFound)
}
