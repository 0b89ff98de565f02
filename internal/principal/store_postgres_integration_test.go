//go:build integration

package principal_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"agendo/internal/principal"
	"agendo/pkg/platform/sentinel"
	"agendo/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *principal.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = principal.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "principals"))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	created := &principal.Principal{
		ID:           uuid.New(),
		Identifier:   "alice",
		Role:         "admin",
		Active:       true,
		PasswordHash: "$2a$10$notarealhash",
	}
	s.Require().NoError(s.store.Create(ctx, created))

	found, err := s.store.FindByIdentifier(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("admin", found.Role)
	s.True(found.Active)
	s.Equal(created.PasswordHash, found.PasswordHash)
}

func (s *PostgresStoreSuite) TestUnknownIdentifier() {
	_, err := s.store.FindByIdentifier(context.Background(), "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.True(principal.IsNotFound(err))
}

func (s *PostgresStoreSuite) TestDuplicateIdentifierConflicts() {
	ctx := context.Background()

	first := &principal.Principal{ID: uuid.New(), Identifier: "alice", Role: "admin", Active: true, PasswordHash: "x"}
	s.Require().NoError(s.store.Create(ctx, first))

	second := &principal.Principal{ID: uuid.New(), Identifier: "alice", Role: "user", Active: true, PasswordHash: "y"}
	err := s.store.Create(ctx, second)
	s.ErrorIs(err, sentinel.ErrConflict)

	// The original row is untouched.
	found, err := s.store.FindByIdentifier(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
	s.Equal("admin", found.Role)
}
