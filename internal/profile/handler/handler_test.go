package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"profiles/internal/avatar/blob"
	"profiles/internal/identitycheck"
	"profiles/internal/profile/handler/mocks"
	"profiles/internal/profile/models"
	"profiles/internal/profile/service"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	authmw "profiles/pkg/platform/middleware/auth"
	"profiles/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router

	caller id.AccountID
	target id.AccountID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)

	s.caller = id.AccountID(uuid.New())
	s.target = id.AccountID(uuid.New())
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(req *http.Request, caller *id.AccountID) *httptest.ResponseRecorder {
	if caller != nil {
		req = testutil.WithAccount(req, *caller)
	}
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) decodeError(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// =============================================================================
// Profile fetches
// =============================================================================

func (s *HandlerSuite) TestGetProfile() {
	s.Run("identified caller", func() {
		s.service.EXPECT().
			GetProfile(gomock.Any(), service.Identified(s.caller), id.ACIServiceID(s.target)).
			Return(&models.BaseProfileResponse{IdentityKey: []byte("key"), UUID: s.target.String()}, nil)

		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/"+s.target.String(), nil), &s.caller)

		s.Equal(http.StatusOK, w.Code)
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal(base64.StdEncoding.EncodeToString([]byte("key")), resp["identityKey"])
		s.Equal(s.target.String(), resp["uuid"])
	})

	s.Run("unidentified access key", func() {
		key := []byte("0123456789abcdef")
		s.service.EXPECT().
			GetProfile(gomock.Any(), service.Unidentified(key), id.ACIServiceID(s.target)).
			Return(&models.BaseProfileResponse{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/profile/ACI:"+s.target.String(), nil)
		req.Header.Set(authmw.HeaderUnidentifiedAccessKey, base64.StdEncoding.EncodeToString(key))
		s.Equal(http.StatusOK, s.do(req, nil).Code)
	})

	s.Run("phone number identifier", func() {
		pni := id.PhoneNumberID(uuid.New())
		s.service.EXPECT().
			GetProfile(gomock.Any(), service.Identified(s.caller), id.PNIServiceID(pni)).
			Return(&models.BaseProfileResponse{}, nil)

		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/PNI:"+pni.String(), nil), &s.caller)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("malformed access key", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/profile/"+s.target.String(), nil)
		req.Header.Set(authmw.HeaderUnidentifiedAccessKey, "%%%")
		w := s.do(req, nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("malformed identifier", func() {
		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/not-a-uuid", nil), &s.caller)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("rate limited", func() {
		s.service.EXPECT().GetProfile(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.RateLimited(90*time.Second))

		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/"+s.target.String(), nil), &s.caller)
		s.Equal(http.StatusRequestEntityTooLarge, w.Code)
		s.Equal("90", w.Header().Get("Retry-After"))
	})

	s.Run("not found", func() {
		s.service.EXPECT().GetProfile(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "account not found"))

		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/"+s.target.String(), nil), &s.caller)
		s.Equal(http.StatusNotFound, w.Code)
		s.Equal("not_found", s.decodeError(w))
	})
}

func (s *HandlerSuite) TestGetVersionedProfile() {
	s.Run("returns profile fields", func() {
		resp := &models.VersionedProfileResponse{Name: "name", PaymentAddress: "payment"}
		s.service.EXPECT().
			GetVersionedProfile(gomock.Any(), service.Identified(s.caller), s.target, "someversion").
			Return(resp, nil)

		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/"+s.target.String()+"/someversion", nil), &s.caller)
		s.Equal(http.StatusOK, w.Code)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
		s.Equal("name", body["name"])
		s.Equal("payment", body["paymentAddress"])
	})

	s.Run("phone number identifier is rejected", func() {
		pni := id.PhoneNumberID(uuid.New())
		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/profile/PNI:"+pni.String()+"/someversion", nil), &s.caller)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *HandlerSuite) TestGetCredential() {
	request := []byte{0xde, 0xad, 0xbe, 0xef}
	path := fmt.Sprintf("/v1/profile/%s/v1/%s", s.target, hex.EncodeToString(request))

	s.Run("passes decoded request and type", func() {
		s.service.EXPECT().
			GetCredential(gomock.Any(), service.Identified(s.caller), s.target, "v1", "expiringProfileKey", request).
			Return(&models.CredentialProfileResponse{Credential: []byte("proof")}, nil)

		w := s.do(httptest.NewRequest(http.MethodGet, path+"?credentialType=expiringProfileKey", nil), &s.caller)
		s.Equal(http.StatusOK, w.Code)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
		s.Equal(base64.StdEncoding.EncodeToString([]byte("proof")), body["credential"])
	})

	s.Run("absent credential is omitted", func() {
		s.service.EXPECT().GetCredential(gomock.Any(), gomock.Any(), s.target, "v1", "expiringProfileKey", request).
			Return(&models.CredentialProfileResponse{}, nil)

		w := s.do(httptest.NewRequest(http.MethodGet, path+"?credentialType=expiringProfileKey", nil), &s.caller)
		s.Equal(http.StatusOK, w.Code)
		s.NotContains(w.Body.String(), `"credential"`)
	})

	s.Run("request must be hex", func() {
		w := s.do(httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/v1/profile/%s/v1/zz?credentialType=expiringProfileKey", s.target), nil), &s.caller)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("verification failure is a bad request", func() {
		s.service.EXPECT().GetCredential(gomock.Any(), gomock.Any(), s.target, "v1", "expiringProfileKey", request).
			Return(nil, dErrors.New(dErrors.CodeVerificationFailed, "invalid credential request"))

		w := s.do(httptest.NewRequest(http.MethodGet, path+"?credentialType=expiringProfileKey", nil), &s.caller)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// Profile updates
// =============================================================================

func setProfileBody(extra string) *bytes.Reader {
	body := `{"version":"someversion","name":"` + strings.Repeat("n", 108) + `","avatar":true,` +
		`"commitment":"` + base64.StdEncoding.EncodeToString([]byte("commitment")) + `"` + extra + `}`
	return bytes.NewReader([]byte(body))
}

func (s *HandlerSuite) TestSetProfile() {
	s.Run("requires authentication", func() {
		w := s.do(httptest.NewRequest(http.MethodPut, "/v1/profile", setProfileBody("")), nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("omitted badge list stays nil", func() {
		s.service.EXPECT().SetProfile(gomock.Any(), s.caller, gomock.Any()).
			DoAndReturn(func(_ any, _ id.AccountID, cmd *models.SetProfileCommand) (*blob.UploadForm, error) {
				s.Equal("someversion", cmd.Version)
				s.Equal([]byte("commitment"), cmd.Commitment)
				s.True(cmd.WantsAvatar)
				s.False(cmd.SameAvatar)
				s.Nil(cmd.BadgeIDs)
				return &blob.UploadForm{Key: "profiles/abc", URL: "https://blobs.example/profiles/abc", Method: http.MethodPut}, nil
			})

		w := s.do(httptest.NewRequest(http.MethodPut, "/v1/profile", setProfileBody("")), &s.caller)
		s.Equal(http.StatusOK, w.Code)
		var upload blob.UploadForm
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &upload))
		s.Equal("profiles/abc", upload.Key)
	})

	s.Run("empty badge list is sent through", func() {
		s.service.EXPECT().SetProfile(gomock.Any(), s.caller, gomock.Any()).
			DoAndReturn(func(_ any, _ id.AccountID, cmd *models.SetProfileCommand) (*blob.UploadForm, error) {
				s.NotNil(cmd.BadgeIDs)
				s.Empty(cmd.BadgeIDs)
				return nil, nil
			})

		w := s.do(httptest.NewRequest(http.MethodPut, "/v1/profile", setProfileBody(`,"badgeIds":[]`)), &s.caller)
		s.Equal(http.StatusOK, w.Code)
		s.Empty(w.Body.String())
	})

	s.Run("commitment must be base64", func() {
		body := bytes.NewReader([]byte(`{"version":"v","commitment":"%%%"}`))
		w := s.do(httptest.NewRequest(http.MethodPut, "/v1/profile", body), &s.caller)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing version", func() {
		body := bytes.NewReader([]byte(`{"commitment":"AA=="}`))
		w := s.do(httptest.NewRequest(http.MethodPut, "/v1/profile", body), &s.caller)
		s.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("disallowed payment address", func() {
		s.service.EXPECT().SetProfile(gomock.Any(), s.caller, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "payment address not allowed"))

		w := s.do(httptest.NewRequest(http.MethodPut, "/v1/profile", setProfileBody("")), &s.caller)
		s.Equal(http.StatusForbidden, w.Code)
	})
}

// =============================================================================
// Identity check and username lookup
// =============================================================================

func (s *HandlerSuite) TestIdentityCheck() {
	fingerprint := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})
	pni := id.PhoneNumberID(uuid.New())

	s.Run("renders mismatches", func() {
		target := s.target
		s.service.EXPECT().CheckIdentities(gomock.Any(), []identitycheck.Element{
			{ACI: &target, Fingerprint: []byte{1, 2, 3, 4}},
			{PNI: &pni, Fingerprint: []byte{1, 2, 3, 4}},
		}).Return([]identitycheck.Mismatch{{ACI: &target, IdentityKey: []byte("current")}}, nil)

		body := fmt.Sprintf(`{"elements":[{"aci":%q,"fingerprint":%q},{"pni":%q,"fingerprint":%q}]}`,
			s.target.String(), fingerprint, "PNI:"+pni.String(), fingerprint)
		w := s.do(httptest.NewRequest(http.MethodPost, "/v1/profile/identity_check/batch", strings.NewReader(body)), nil)

		s.Equal(http.StatusOK, w.Code)
		var resp struct {
			Elements []map[string]string `json:"elements"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Require().Len(resp.Elements, 1)
		s.Equal(s.target.String(), resp.Elements[0]["aci"])
		s.Equal(base64.StdEncoding.EncodeToString([]byte("current")), resp.Elements[0]["identityKey"])
		s.NotContains(resp.Elements[0], "pni")
	})

	s.Run("malformed fingerprint", func() {
		body := fmt.Sprintf(`{"elements":[{"aci":%q,"fingerprint":"AQID"}]}`, s.target.String())
		w := s.do(httptest.NewRequest(http.MethodPost, "/v1/profile/identity_check/batch", strings.NewReader(body)), nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("blank identifier", func() {
		body := fmt.Sprintf(`{"elements":[{"aci":"  ","fingerprint":%q}]}`, fingerprint)
		w := s.do(httptest.NewRequest(http.MethodPost, "/v1/profile/identity_check/batch", strings.NewReader(body)), nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("elements past the limit are not inspected", func() {
		elements := make([]IdentityCheckElement, identitycheck.MaxBatchSize+1)
		for i := range identitycheck.MaxBatchSize {
			elements[i] = IdentityCheckElement{ACI: s.target.String(), Fingerprint: fingerprint}
		}
		elements[identitycheck.MaxBatchSize] = IdentityCheckElement{Fingerprint: "junk"}
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/profile/identity_check/batch",
			IdentityCheckRequest{Elements: elements})

		s.service.EXPECT().CheckIdentities(gomock.Any(), gomock.Len(identitycheck.MaxBatchSize)).Return(nil, nil)
		w := s.do(req, nil)
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"elements":[]}`, w.Body.String())
	})
}

func (s *HandlerSuite) TestLookupUsernameHash() {
	hash := bytes.Repeat([]byte{0xfb}, 32)
	path := "/v1/accounts/username_hash/" + base64.RawURLEncoding.EncodeToString(hash)

	s.Run("resolves account", func() {
		s.service.EXPECT().LookupUsernameHash(gomock.Any(), s.caller, hash).Return(s.target, nil)

		w := s.do(httptest.NewRequest(http.MethodGet, path, nil), &s.caller)
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(fmt.Sprintf(`{"uuid":%q}`, s.target.String()), w.Body.String())
	})

	s.Run("requires authentication", func() {
		w := s.do(httptest.NewRequest(http.MethodGet, path, nil), nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("malformed hash", func() {
		w := s.do(httptest.NewRequest(http.MethodGet, "/v1/accounts/username_hash/!!!", nil), &s.caller)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("rate limited", func() {
		s.service.EXPECT().LookupUsernameHash(gomock.Any(), s.caller, hash).Return(id.AccountID{}, dErrors.RateLimited(time.Minute))

		w := s.do(httptest.NewRequest(http.MethodGet, path, nil), &s.caller)
		s.Equal(http.StatusRequestEntityTooLarge, w.Code)
		s.Equal("60", w.Header().Get("Retry-After"))
	})
}
