package principal_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"agendo/internal/principal"
	"agendo/internal/principal/mocks"
	"agendo/pkg/platform/sentinel"
)

type CachedStoreSuite struct {
	suite.Suite
	redis  *miniredis.Miniredis
	client *redis.Client
	ctrl   *gomock.Controller
	inner  *mocks.MockStore
	store  *principal.CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.redis = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s.ctrl = gomock.NewController(s.T())
	s.inner = mocks.NewMockStore(s.ctrl)
	s.store = principal.NewCachedStore(s.inner, s.client, time.Minute, slog.New(slog.DiscardHandler))
}

func (s *CachedStoreSuite) TearDownTest() {
	_ = s.client.Close()
	s.redis.Close()
}

func (s *CachedStoreSuite) TestReadThrough() {
	stored := &principal.Principal{ID: uuid.New(), Identifier: "alice", Role: "admin", Active: true}

	// Only the first lookup reaches the inner store.
	s.inner.EXPECT().FindByIdentifier(gomock.Any(), "alice").Return(stored, nil).Times(1)

	first, err := s.store.FindByIdentifier(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(stored.ID, first.ID)

	second, err := s.store.FindByIdentifier(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(stored.ID, second.ID)
	s.Equal("admin", second.Role)
}

func (s *CachedStoreSuite) TestMissIsNotCached() {
	s.inner.EXPECT().FindByIdentifier(gomock.Any(), "nobody").
		Return(nil, sentinel.ErrNotFound).Times(2)

	for i := 0; i < 2; i++ {
		_, err := s.store.FindByIdentifier(context.Background(), "nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
	}
}

func (s *CachedStoreSuite) TestCorruptEntryFallsThrough() {
	s.Require().NoError(s.redis.Set("principal:alice", "{not json"))

	stored := &principal.Principal{ID: uuid.New(), Identifier: "alice", Active: true}
	s.inner.EXPECT().FindByIdentifier(gomock.Any(), "alice").Return(stored, nil)

	found, err := s.store.FindByIdentifier(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(stored.ID, found.ID)
}

func (s *CachedStoreSuite) TestRedisOutageFallsThrough() {
	stored := &principal.Principal{ID: uuid.New(), Identifier: "alice", Active: true}
	s.inner.EXPECT().FindByIdentifier(gomock.Any(), "alice").Return(stored, nil)

	s.redis.SetError("LOADING Redis is loading the dataset in memory")

	found, err := s.store.FindByIdentifier(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal(stored.ID, found.ID)
}

func (s *CachedStoreSuite) TestCreateInvalidates() {
	s.Require().NoError(s.redis.Set("principal:alice", `{"Identifier":"alice"}`))

	created := &principal.Principal{ID: uuid.New(), Identifier: "alice"}
	s.inner.EXPECT().Create(gomock.Any(), created).Return(nil)

	s.Require().NoError(s.store.Create(context.Background(), created))
	s.False(s.redis.Exists("principal:alice"))
}

func (s *CachedStoreSuite) TestCreateErrorDoesNotTouchCache() {
	s.Require().NoError(s.redis.Set("principal:alice", `{"Identifier":"alice"}`))

	created := &principal.Principal{Identifier: "alice"}
	s.inner.EXPECT().Create(gomock.Any(), created).Return(errors.New("insert failed"))

	s.Error(s.store.Create(context.Background(), created))
	s.True(s.redis.Exists("principal:alice"))
}
