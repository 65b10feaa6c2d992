package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/isdelr/yoga-collections-be/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

func testHasher() BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func newUserService(t *testing.T) *UserService {
	return NewUserService(store.NewUserStore(setupDB(t)), testHasher())
}

// recorderMock is a testify mock of EventRecorder.
type recorderMock struct {
	mock.Mock
}

func (m *recorderMock) Record(ctx context.Context, event models.Event) {
	m.Called(ctx, event)
}

// eventRepoMock is a testify mock of EventRepository.
type eventRepoMock struct {
	mock.Mock
}

func (m *eventRepoMock) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		event.ID = 1
	}
	return args.Error(0)
}

func (m *eventRepoMock) ListByOwner(ctx context.Context, owner models.ExternalID, limit int) ([]models.Event, error) {
	args := m.Called(ctx, owner, limit)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

// publisherMock is a testify mock of EventPublisher.
type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(owner string, message []byte) {
	m.Called(owner, message)
}
