package admin

//go:generate mockgen -source=admin.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"profiles/internal/ratelimit/admin/mocks"
	"profiles/internal/ratelimit/models"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/audit"
	"profiles/pkg/platform/audit/publisher"
	auditmemory "profiles/pkg/platform/audit/store/memory"
	"profiles/pkg/testutil"
)

type AdminSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	limiter *mocks.MockResetter
	audit   *auditmemory.InMemoryStore
	router  chi.Router
}

func TestAdminSuite(t *testing.T) {
	suite.Run(t, new(AdminSuite))
}

func (s *AdminSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.limiter = mocks.NewMockResetter(s.ctrl)
	s.audit = auditmemory.NewInMemoryStore()

	h, err := New(s.limiter,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
	)
	s.Require().NoError(err)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *AdminSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AdminSuite) reset(action, account string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/admin/ratelimit/"+action+"/"+account, nil)
	return testutil.DoRequest(s.router, req)
}

func (s *AdminSuite) TestNew() {
	_, err := New(nil)
	s.Require().Error(err)
}

func (s *AdminSuite) TestHandleReset() {
	s.Run("clears the bucket and records an audit event", func() {
		accountID := id.AccountID(uuid.New())
		s.limiter.EXPECT().
			Reset(gomock.Any(), models.ActionProfileSet, accountID).
			Return(nil)

		w := s.reset("profile_set", accountID.String())

		s.Equal(http.StatusNoContent, w.Code)
		events := s.audit.ListByAction(context.Background(), audit.EventRateLimitReset)
		s.Require().Len(events, 1)
		s.Equal(accountID, events[0].AccountID)
		s.Equal("profile_set", events[0].Subject)
	})

	s.Run("unknown action", func() {
		w := s.reset("login", uuid.NewString())
		testutil.AssertStatusAndError(s.T(), w, http.StatusBadRequest, "bad_request")
	})

	s.Run("malformed account id", func() {
		w := s.reset("profile_fetch", "not-a-uuid")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("store failure", func() {
		s.limiter.EXPECT().
			Reset(gomock.Any(), models.ActionUsernameLookup, gomock.Any()).
			Return(errors.New("redis down"))

		w := s.reset("username_lookup", uuid.NewString())
		s.Equal(http.StatusInternalServerError, w.Code)
	})
}
