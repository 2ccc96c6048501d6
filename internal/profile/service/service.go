// Package service sequences profile reads and writes across the account
// directory, profile storage, avatar lifecycle, badge reconciliation,
// credential issuance and batch identity checks.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	accountmodels "profiles/internal/account/models"
	"profiles/internal/avatar"
	"profiles/internal/avatar/blob"
	"profiles/internal/badge"
	"profiles/internal/credential"
	"profiles/internal/dynconfig"
	"profiles/internal/identitycheck"
	"profiles/internal/profile/metrics"
	"profiles/internal/profile/models"
	ratelimitmodels "profiles/internal/ratelimit/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/audit"
	"profiles/pkg/platform/sentinel"
	"profiles/pkg/requestcontext"
)

const (
	tracerName = "profiles/internal/profile/service"

	// usernameHashSize is the decoded length of a username hash.
	usernameHashSize = 32
)

// Service is the entry point for profile operations.
type Service struct {
	accounts    AccountStore
	profiles    *VersionedProfiles
	avatars     AvatarManager
	credentials CredentialGate
	verifier    IdentityVerifier
	limiter     RateLimiter

	catalog        *badge.Catalog
	reconciler     *badge.Reconciler
	dynamic        DynamicConfig
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBadgeCatalog sets the catalog used to grant and render badges.
func WithBadgeCatalog(catalog *badge.Catalog) Option {
	return func(s *Service) {
		s.catalog = catalog
	}
}

func WithDynamicConfig(dynamic DynamicConfig) Option {
	return func(s *Service) {
		s.dynamic = dynamic
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(
	accounts AccountStore,
	profiles ProfileStore,
	avatars AvatarManager,
	credentials CredentialGate,
	verifier IdentityVerifier,
	limiter RateLimiter,
	opts ...Option,
) (*Service, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if avatars == nil {
		return nil, errors.New("avatar manager is required")
	}
	if credentials == nil {
		return nil, errors.New("credential gate is required")
	}
	if verifier == nil {
		return nil, errors.New("identity verifier is required")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter is required")
	}
	versioned, err := NewVersionedProfiles(profiles, accounts)
	if err != nil {
		return nil, err
	}

	s := &Service{
		accounts:    accounts,
		profiles:    versioned,
		avatars:     avatars,
		credentials: credentials,
		verifier:    verifier,
		limiter:     limiter,
		catalog:     badge.NewCatalog(),
		dynamic:     dynconfig.NewStatic(dynconfig.Snapshot{}),
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reconciler = badge.NewReconciler(s.catalog)
	return s, nil
}

// GetProfile returns the unversioned profile of target.
func (s *Service) GetProfile(ctx context.Context, access Access, serviceID id.ServiceID) (_ *models.BaseProfileResponse, err error) {
	ctx, span := s.startSpan(ctx, "GetProfile", attribute.String("profile.access", access.kind()))
	defer func() { endSpan(span, err) }()
	defer s.metrics.ObserveOperation("get_profile", time.Now())

	t, err := s.authorize(ctx, access, serviceID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementFetch("unversioned", access.kind())
	base := s.baseProfile(ctx, t)
	return &base, nil
}

// GetVersionedProfile returns target's profile at version. A version with
// no stored profile yields only the base fields.
func (s *Service) GetVersionedProfile(ctx context.Context, access Access, accountID id.AccountID, version string) (_ *models.VersionedProfileResponse, err error) {
	ctx, span := s.startSpan(ctx, "GetVersionedProfile", attribute.String("profile.access", access.kind()))
	defer func() { endSpan(span, err) }()
	defer s.metrics.ObserveOperation("get_versioned_profile", time.Now())

	t, err := s.authorize(ctx, access, id.ACIServiceID(accountID))
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementFetch("versioned", access.kind())
	return s.versionedProfile(ctx, t, version)
}

// GetCredential returns target's profile at version together with an
// expiring profile key credential for request. The credential is absent
// when no profile is stored at version.
func (s *Service) GetCredential(
	ctx context.Context,
	access Access,
	accountID id.AccountID,
	version string,
	credentialType string,
	request []byte,
) (_ *models.CredentialProfileResponse, err error) {
	ctx, span := s.startSpan(ctx, "GetCredential", attribute.String("profile.access", access.kind()))
	defer func() { endSpan(span, err) }()
	defer s.metrics.ObserveOperation("get_credential", time.Now())

	if err := credential.ValidateType(credentialType); err != nil {
		return nil, err
	}
	t, err := s.authorize(ctx, access, id.ACIServiceID(accountID))
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementFetch("credential", access.kind())

	versioned, err := s.versionedProfile(ctx, t, version)
	if err != nil {
		return nil, err
	}
	resp := &models.CredentialProfileResponse{VersionedProfileResponse: *versioned}

	issued, err := s.credentials.Issue(ctx, accountID, version, request, requestcontext.Now(ctx))
	if err != nil {
		s.metrics.IncrementCredential("failed")
		return nil, err
	}
	if issued == nil {
		s.metrics.IncrementCredential("absent")
		return resp, nil
	}
	s.metrics.IncrementCredential("issued")
	s.emit(ctx, audit.EventCredentialIssued, accountID, version, "")
	resp.Credential = issued.Response
	return resp, nil
}

// SetProfile stores a new profile version for caller. It returns upload
// credentials when a new avatar must be uploaded, otherwise nil.
func (s *Service) SetProfile(ctx context.Context, caller id.AccountID, cmd *models.SetProfileCommand) (_ *blob.UploadForm, err error) {
	ctx, span := s.startSpan(ctx, "SetProfile")
	defer func() { endSpan(span, err) }()
	defer s.metrics.ObserveOperation("set_profile", time.Now())

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	account, err := s.requireEnabledCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Validate(ctx, ratelimitmodels.ActionProfileSet, caller); err != nil {
		return nil, err
	}

	existing, err := s.profiles.Stored(ctx, caller, cmd.Version)
	if err != nil {
		return nil, err
	}
	if err := s.checkPaymentAddress(ctx, account, cmd, existing); err != nil {
		return nil, err
	}

	var previousAvatar string
	if existing != nil && avatar.IsManaged(existing.Avatar) {
		previousAvatar = existing.Avatar
	}
	plan, err := s.avatars.Plan(ctx, cmd.WantsAvatar, cmd.SameAvatar, previousAvatar)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to prepare avatar")
	}

	var reconcile func([]accountmodels.AccountBadge) []accountmodels.AccountBadge
	if cmd.BadgeIDs != nil {
		now := requestcontext.Now(ctx)
		reconcile = func(current []accountmodels.AccountBadge) []accountmodels.AccountBadge {
			return s.reconciler.Reconcile(current, cmd.BadgeIDs, now)
		}
	}

	_, err = s.profiles.Accept(ctx, caller, cmd.Profile(plan.Key), reconcile, func() {
		s.avatars.DiscardObsolete(ctx, caller, plan)
	})
	if err != nil {
		return nil, err
	}

	platform := requestcontext.ClientPlatform(ctx)
	s.metrics.IncrementSet(platform)
	s.emit(ctx, audit.EventProfileSet, caller, cmd.Version, "")
	if plan.Upload != nil {
		s.emit(ctx, audit.EventAvatarUploadIssued, caller, plan.Key, "")
	}
	s.logger.InfoContext(ctx, "profile set",
		"account_id", caller.String(),
		"avatar_action", string(plan.Action),
		"platform", platform,
	)
	return plan.Upload, nil
}

// CheckIdentities reports the elements whose claimed fingerprint does not
// match the directory.
func (s *Service) CheckIdentities(ctx context.Context, elements []identitycheck.Element) (_ []identitycheck.Mismatch, err error) {
	ctx, span := s.startSpan(ctx, "CheckIdentities", attribute.Int("identity_check.elements", len(elements)))
	defer func() { endSpan(span, err) }()
	defer s.metrics.ObserveOperation("check_identities", time.Now())

	mismatches, err := s.verifier.Verify(ctx, elements)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveIdentityCheck(min(len(elements), identitycheck.MaxBatchSize), len(mismatches))
	return mismatches, nil
}

// LookupUsernameHash resolves a username hash to an account identifier.
func (s *Service) LookupUsernameHash(ctx context.Context, caller id.AccountID, hash []byte) (_ id.AccountID, err error) {
	ctx, span := s.startSpan(ctx, "LookupUsernameHash")
	defer func() { endSpan(span, err) }()

	if len(hash) != usernameHashSize {
		return id.AccountID{}, dErrors.New(dErrors.CodeBadRequest, "username hash must be 32 bytes")
	}
	if err := s.limiter.Validate(ctx, ratelimitmodels.ActionUsernameLookup, caller); err != nil {
		return id.AccountID{}, err
	}
	account, err := s.accounts.FindByUsernameHash(ctx, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.AccountID{}, dErrors.New(dErrors.CodeNotFound, "username not found")
		}
		return id.AccountID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up username")
	}
	if !account.Enabled {
		return id.AccountID{}, dErrors.New(dErrors.CodeNotFound, "username not found")
	}
	return account.ID, nil
}

// checkPaymentAddress rejects payment addresses from disallowed number
// prefixes unless the same version already carried one.
func (s *Service) checkPaymentAddress(ctx context.Context, account *accountmodels.Account, cmd *models.SetProfileCommand, existing *models.VersionedProfile) error {
	if !cmd.HasPaymentAddress() {
		return nil
	}
	if !s.dynamic.Snapshot().PaymentsDisallowed(account.Number) {
		return nil
	}
	if existing != nil && existing.HasPaymentAddress() {
		return nil
	}
	s.metrics.IncrementPaymentAddressRejection()
	s.emit(ctx, audit.EventPaymentAddressRejected, account.ID, cmd.Version, "disallowed_prefix")
	return dErrors.New(dErrors.CodeForbidden, "payment address not allowed for this number")
}

func (s *Service) baseProfile(ctx context.Context, t *target) models.BaseProfileResponse {
	account := t.account
	if t.idType == id.IdentityPNI {
		return models.BaseProfileResponse{
			IdentityKey: account.PhoneNumberIdentityKey,
			Badges:      []badge.Badge{},
			UUID:        id.PNIServiceID(account.PhoneNumberID).String(),
		}
	}
	return models.BaseProfileResponse{
		IdentityKey:                    account.IdentityKey,
		UnidentifiedAccess:             UnidentifiedAccessChecksum(account.UnidentifiedAccessKey),
		UnrestrictedUnidentifiedAccess: account.UnrestrictedUnidentifiedAccess,
		Capabilities:                   models.NewCapabilitiesResponse(account.Capabilities),
		Badges:                         s.catalog.Translate(account.Badges, requestcontext.Now(ctx), t.isSelf),
		UUID:                           id.ACIServiceID(account.ID).String(),
	}
}

func (s *Service) versionedProfile(ctx context.Context, t *target, version string) (*models.VersionedProfileResponse, error) {
	profile, err := s.profiles.Get(ctx, t.account, version)
	if err != nil {
		return nil, err
	}
	resp := &models.VersionedProfileResponse{BaseProfileResponse: s.baseProfile(ctx, t)}
	return resp.WithProfile(profile), nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, accountID id.AccountID, subject, reason string) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.NewEvent(action, accountID)
	event.Subject = subject
	event.Reason = reason
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Platform = requestcontext.ClientPlatform(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(action), "error", err)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "profile."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	span.End()
}
