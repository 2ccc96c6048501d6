package handler

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"profiles/internal/avatar/blob"
	"profiles/internal/identitycheck"
	"profiles/internal/profile/models"
	"profiles/internal/profile/service"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/httputil"
	authmw "profiles/pkg/platform/middleware/auth"
	"profiles/pkg/requestcontext"
)

// Service defines the profile operations exposed over HTTP.
type Service interface {
	GetProfile(ctx context.Context, access service.Access, serviceID id.ServiceID) (*models.BaseProfileResponse, error)
	GetVersionedProfile(ctx context.Context, access service.Access, accountID id.AccountID, version string) (*models.VersionedProfileResponse, error)
	GetCredential(ctx context.Context, access service.Access, accountID id.AccountID, version string, credentialType string, request []byte) (*models.CredentialProfileResponse, error)
	SetProfile(ctx context.Context, caller id.AccountID, cmd *models.SetProfileCommand) (*blob.UploadForm, error)
	CheckIdentities(ctx context.Context, elements []identitycheck.Element) ([]identitycheck.Mismatch, error)
	LookupUsernameHash(ctx context.Context, caller id.AccountID, hash []byte) (id.AccountID, error)
}

// Handler wires profile endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a profile handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts profile endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/profile", func(r chi.Router) {
		r.Put("/", h.HandleSetProfile)
		r.Post("/identity_check/batch", h.HandleIdentityCheck)
		r.Get("/{identifier}", h.HandleGetProfile)
		r.Get("/{identifier}/{version}", h.HandleGetVersionedProfile)
		r.Get("/{identifier}/{version}/{credentialRequest}", h.HandleGetCredential)
	})
	r.Get("/v1/accounts/username_hash/{usernameHash}", h.HandleLookupUsernameHash)
}

// HandleGetProfile handles GET /v1/profile/{identifier}.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, err := accessFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	serviceID, err := id.ParseServiceID(chi.URLParam(r, "identifier"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp, err := h.service.GetProfile(ctx, access, serviceID)
	if err != nil {
		h.logFailure(ctx, "get profile failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetVersionedProfile handles GET /v1/profile/{identifier}/{version}.
func (h *Handler) HandleGetVersionedProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, err := accessFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	accountID, err := accountIdentifier(chi.URLParam(r, "identifier"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp, err := h.service.GetVersionedProfile(ctx, access, accountID, chi.URLParam(r, "version"))
	if err != nil {
		h.logFailure(ctx, "get versioned profile failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetCredential handles
// GET /v1/profile/{identifier}/{version}/{credentialRequest}?credentialType=.
func (h *Handler) HandleGetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, err := accessFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	accountID, err := accountIdentifier(chi.URLParam(r, "identifier"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	request, err := hex.DecodeString(chi.URLParam(r, "credentialRequest"))
	if err != nil || len(request) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "credential request must be hex encoded"))
		return
	}

	resp, err := h.service.GetCredential(ctx, access, accountID, chi.URLParam(r, "version"),
		r.URL.Query().Get("credentialType"), request)
	if err != nil {
		h.logFailure(ctx, "get credential failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSetProfile handles PUT /v1/profile.
func (h *Handler) HandleSetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := requestcontext.AccountID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, err := httputil.DecodeJSON[SetProfileRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	upload, err := h.service.SetProfile(ctx, caller, req.Command())
	if err != nil {
		h.logFailure(ctx, "set profile failed", err, "account_id", caller.String())
		httputil.WriteError(w, err)
		return
	}
	if upload == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, upload)
}

// HandleIdentityCheck handles POST /v1/profile/identity_check/batch.
func (h *Handler) HandleIdentityCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[IdentityCheckRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	mismatches, err := h.service.CheckIdentities(ctx, req.ParsedElements())
	if err != nil {
		h.logFailure(ctx, "identity check failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIdentityCheckResponse(mismatches))
}

// HandleLookupUsernameHash handles GET /v1/accounts/username_hash/{usernameHash}.
func (h *Handler) HandleLookupUsernameHash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := requestcontext.AccountID(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	hash, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(chi.URLParam(r, "usernameHash"), "="))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "username hash must be base64url"))
		return
	}

	accountID, err := h.service.LookupUsernameHash(ctx, caller, hash)
	if err != nil {
		h.logFailure(ctx, "username hash lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.UsernameHashResponse{UUID: accountID.String()})
}

// accessFrom prefers the authenticated caller and falls back to the
// Unidentified-Access-Key header. A request with neither yields empty Access,
// which the service rejects.
func accessFrom(r *http.Request) (service.Access, error) {
	if caller, ok := requestcontext.AccountID(r.Context()); ok {
		return service.Identified(caller), nil
	}
	header := r.Header.Get(authmw.HeaderUnidentifiedAccessKey)
	if header == "" {
		return service.Access{}, nil
	}
	key, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return service.Access{}, dErrors.New(dErrors.CodeUnauthorized, "invalid unidentified access key")
	}
	return service.Unidentified(key), nil
}

func accountIdentifier(raw string) (id.AccountID, error) {
	serviceID, err := id.ParseServiceID(raw)
	if err != nil {
		return id.AccountID{}, err
	}
	accountID, ok := serviceID.AccountID()
	if !ok {
		return id.AccountID{}, dErrors.New(dErrors.CodeBadRequest, "versioned profiles are keyed by account identifier")
	}
	return accountID, nil
}

// logFailure logs server-side failures; client errors are left to the
// access log.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	args := append([]any{"request_id", requestcontext.RequestID(ctx), "error", err}, attrs...)
	h.logger.ErrorContext(ctx, msg, args...)
}
