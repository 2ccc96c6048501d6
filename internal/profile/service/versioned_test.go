package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	accountmodels "profiles/internal/account/models"
	"profiles/internal/profile/models"
	"profiles/internal/profile/service/mocks"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/sentinel"
)

func TestRedact(t *testing.T) {
	stored := &models.VersionedProfile{Version: "v1", PaymentAddress: "pay", Commitment: []byte{1}}

	tests := []struct {
		name    string
		current string
		version string
		want    string
	}{
		{name: "no current version matches any", current: "", version: "v1", want: "pay"},
		{name: "current version matches", current: "v1", version: "v1", want: "pay"},
		{name: "other current version redacts", current: "v2", version: "v1", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &accountmodels.Account{CurrentProfileVersion: tt.current}
			got := Redact(account, tt.version, stored)
			assert.Equal(t, tt.want, got.PaymentAddress)
			assert.Equal(t, "pay", stored.PaymentAddress, "stored record is never modified")
		})
	}
}

type VersionedProfilesSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	profiles  *mocks.MockProfileStore
	accounts  *mocks.MockAccountStore
	versioned *VersionedProfiles
	accountID id.AccountID
}

func TestVersionedProfilesSuite(t *testing.T) {
	suite.Run(t, new(VersionedProfilesSuite))
}

func (s *VersionedProfilesSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.profiles = mocks.NewMockProfileStore(s.ctrl)
	s.accounts = mocks.NewMockAccountStore(s.ctrl)
	s.accountID = id.AccountID(uuid.New())

	versioned, err := NewVersionedProfiles(s.profiles, s.accounts)
	s.Require().NoError(err)
	s.versioned = versioned
}

func (s *VersionedProfilesSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *VersionedProfilesSuite) TestNew() {
	_, err := NewVersionedProfiles(nil, s.accounts)
	s.ErrorContains(err, "profile store is required")
	_, err = NewVersionedProfiles(s.profiles, nil)
	s.ErrorContains(err, "account store is required")
}

func (s *VersionedProfilesSuite) TestGet() {
	ctx := context.Background()
	account := &accountmodels.Account{ID: s.accountID, CurrentProfileVersion: "v2"}

	s.Run("absent version is nil without error", func() {
		s.profiles.EXPECT().Get(ctx, s.accountID, "v9").Return(nil, sentinel.ErrNotFound)
		p, err := s.versioned.Get(ctx, account, "v9")
		s.NoError(err)
		s.Nil(p)
	})

	s.Run("stale version loses payment address", func() {
		s.profiles.EXPECT().Get(ctx, s.accountID, "v1").
			Return(&models.VersionedProfile{Version: "v1", Name: "n", PaymentAddress: "pay"}, nil)
		p, err := s.versioned.Get(ctx, account, "v1")
		s.Require().NoError(err)
		s.Equal("n", p.Name)
		s.Empty(p.PaymentAddress)
	})

	s.Run("store failure is internal", func() {
		s.profiles.EXPECT().Get(ctx, s.accountID, "v1").Return(nil, errors.New("boom"))
		_, err := s.versioned.Get(ctx, account, "v1")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *VersionedProfilesSuite) TestAccept() {
	ctx := context.Background()
	profile := &models.VersionedProfile{Version: "v3", Commitment: []byte{1}}

	s.Run("writes profile, runs side effects, then flips pointer", func() {
		var order []string
		gomock.InOrder(
			s.profiles.EXPECT().Set(ctx, s.accountID, profile).DoAndReturn(
				func(context.Context, id.AccountID, *models.VersionedProfile) error {
					order = append(order, "set")
					return nil
				}),
			s.accounts.EXPECT().Execute(ctx, s.accountID, gomock.Any()).DoAndReturn(
				func(_ context.Context, _ id.AccountID, mutate func(*accountmodels.Account) error) (*accountmodels.Account, error) {
					order = append(order, "execute")
					a := &accountmodels.Account{ID: s.accountID, Badges: []accountmodels.AccountBadge{{ID: "B1"}}}
					s.Require().NoError(mutate(a))
					return a, nil
				}),
		)

		account, err := s.versioned.Accept(ctx, s.accountID, profile, nil, func() {
			order = append(order, "after")
		})
		s.Require().NoError(err)
		s.Equal([]string{"set", "after", "execute"}, order)
		s.Equal("v3", account.CurrentProfileVersion)
		s.Len(account.Badges, 1, "badges untouched without a reconcile func")
	})

	s.Run("failed write leaves account untouched", func() {
		s.profiles.EXPECT().Set(ctx, s.accountID, profile).Return(errors.New("disk full"))

		called := false
		_, err := s.versioned.Accept(ctx, s.accountID, profile, nil, func() { called = true })
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.False(called)
	})

	s.Run("badge func replaces badges in the same update", func() {
		s.profiles.EXPECT().Set(ctx, s.accountID, profile).Return(nil)
		s.accounts.EXPECT().Execute(ctx, s.accountID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ id.AccountID, mutate func(*accountmodels.Account) error) (*accountmodels.Account, error) {
				a := &accountmodels.Account{ID: s.accountID}
				s.Require().NoError(mutate(a))
				return a, nil
			})

		account, err := s.versioned.Accept(ctx, s.accountID, profile,
			func([]accountmodels.AccountBadge) []accountmodels.AccountBadge {
				return []accountmodels.AccountBadge{{ID: "NEW", Visible: true}}
			}, nil)
		s.Require().NoError(err)
		s.Equal("NEW", account.Badges[0].ID)
	})

	s.Run("missing account is not found", func() {
		s.profiles.EXPECT().Set(ctx, s.accountID, profile).Return(nil)
		s.accounts.EXPECT().Execute(ctx, s.accountID, gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.versioned.Accept(ctx, s.accountID, profile, nil, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
