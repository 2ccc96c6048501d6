package credential

//go:generate mockgen -source=gate.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	accountmodels "profiles/internal/account/models"
	"profiles/internal/credential/mocks"
	profilemodels "profiles/internal/profile/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/sentinel"
)

type GateSuite struct {
	suite.Suite
	accounts *mocks.MockAccountReader
	profiles *mocks.MockProfileReader
	issuer   *mocks.MockIssuer
	gate     *Gate
	account  *accountmodels.Account
	now      time.Time
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.accounts = mocks.NewMockAccountReader(ctrl)
	s.profiles = mocks.NewMockProfileReader(ctrl)
	s.issuer = mocks.NewMockIssuer(ctrl)

	gate, err := NewGate(s.accounts, s.profiles, s.issuer)
	s.Require().NoError(err)
	s.gate = gate

	s.account = &accountmodels.Account{ID: id.AccountID(uuid.New()), Enabled: true}
	s.now = time.Date(2026, 4, 10, 17, 45, 0, 0, time.UTC)
}

func (s *GateSuite) TestNewGateRequiresDependencies() {
	_, err := NewGate(nil, s.profiles, s.issuer)
	s.Error(err)
	_, err = NewGate(s.accounts, nil, s.issuer)
	s.Error(err)
	_, err = NewGate(s.accounts, s.profiles, nil)
	s.Error(err)
}

func (s *GateSuite) TestExpirationIsDayTruncated() {
	s.Equal(time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC), ExpirationFor(s.now))

	east := time.FixedZone("UTC+9", 9*3600)
	s.Equal(time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC), ExpirationFor(s.now.In(east)))
}

func (s *GateSuite) TestIssue() {
	ctx := context.Background()
	request := []byte("credential-request")

	s.Run("binds the commitment of the requested version", func() {
		s.accounts.EXPECT().FindByAccountID(gomock.Any(), s.account.ID).Return(s.account, nil)
		s.profiles.EXPECT().Get(gomock.Any(), s.account.ID, "v2").
			Return(&profilemodels.VersionedProfile{Version: "v2", Commitment: []byte("commitment-v2")}, nil)
		s.issuer.EXPECT().IssueExpiringProfileKeyCredential(gomock.Any(), request, s.account.ID,
			[]byte("commitment-v2"), time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC)).
			Return([]byte("issued"), nil)

		cred, err := s.gate.Issue(ctx, s.account.ID, "v2", request, s.now)
		s.Require().NoError(err)
		s.Equal(TypeExpiringProfileKey, cred.Type)
		s.Equal([]byte("issued"), cred.Response)
	})

	s.Run("unknown version yields no credential and no error", func() {
		s.accounts.EXPECT().FindByAccountID(gomock.Any(), s.account.ID).Return(s.account, nil)
		s.profiles.EXPECT().Get(gomock.Any(), s.account.ID, "never").Return(nil, sentinel.ErrNotFound)

		cred, err := s.gate.Issue(ctx, s.account.ID, "never", request, s.now)
		s.Require().NoError(err)
		s.Nil(cred)
	})

	s.Run("missing account is not found", func() {
		s.accounts.EXPECT().FindByAccountID(gomock.Any(), s.account.ID).Return(nil, sentinel.ErrNotFound)

		_, err := s.gate.Issue(ctx, s.account.ID, "v1", request, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("disabled account is not found", func() {
		disabled := *s.account
		disabled.Enabled = false
		s.accounts.EXPECT().FindByAccountID(gomock.Any(), s.account.ID).Return(&disabled, nil)

		_, err := s.gate.Issue(ctx, s.account.ID, "v1", request, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("malformed request is propagated as verification failure", func() {
		s.accounts.EXPECT().FindByAccountID(gomock.Any(), s.account.ID).Return(s.account, nil)
		s.profiles.EXPECT().Get(gomock.Any(), s.account.ID, "v1").
			Return(&profilemodels.VersionedProfile{Version: "v1", Commitment: []byte("c")}, nil)
		s.issuer.EXPECT().IssueExpiringProfileKeyCredential(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeVerificationFailed, "invalid credential request"))

		_, err := s.gate.Issue(ctx, s.account.ID, "v1", request, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	})

	s.Run("store failure is internal", func() {
		s.accounts.EXPECT().FindByAccountID(gomock.Any(), s.account.ID).Return(nil, errors.New("connection reset"))

		_, err := s.gate.Issue(ctx, s.account.ID, "v1", request, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *GateSuite) TestValidateType() {
	s.NoError(ValidateType(TypeExpiringProfileKey))
	s.True(dErrors.HasCode(ValidateType("pni"), dErrors.CodeBadRequest))
}
