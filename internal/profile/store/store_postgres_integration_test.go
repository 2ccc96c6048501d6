//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"profiles/internal/profile/models"
	"profiles/internal/profile/store"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/sentinel"
	"profiles/pkg/testutil/containers"
)

type PostgresProfileStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresProfileStore
}

func TestPostgresProfileStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresProfileStoreSuite))
}

func (s *PostgresProfileStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgresProfileStore(s.postgres.DB)
}

func (s *PostgresProfileStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "profiles"))
}

func (s *PostgresProfileStoreSuite) TestUpsertAndRead() {
	ctx := context.Background()
	account := id.AccountID(uuid.New())

	s.Require().NoError(s.store.Set(ctx, account, &models.VersionedProfile{
		Version: "v1", Name: "name", PaymentAddress: "pay", Avatar: "profiles/a", Commitment: []byte{1, 2},
	}))
	s.Require().NoError(s.store.Set(ctx, account, &models.VersionedProfile{
		Version: "v1", Name: "renamed", Commitment: []byte{3},
	}))

	p, err := s.store.Get(ctx, account, "v1")
	s.Require().NoError(err)
	s.Equal("renamed", p.Name)
	s.False(p.HasPaymentAddress())
	s.False(p.HasAvatar())
	s.Equal([]byte{3}, p.Commitment)

	_, err = s.store.Get(ctx, account, "v2")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
