package service

import (
	"context"
	"time"

	accountmodels "profiles/internal/account/models"
	"profiles/internal/avatar"
	"profiles/internal/credential"
	"profiles/internal/dynconfig"
	"profiles/internal/identitycheck"
	"profiles/internal/profile/models"
	ratelimitmodels "profiles/internal/ratelimit/models"
	id "profiles/pkg/domain"
	"profiles/pkg/platform/audit"
)

// AccountStore is the account directory.
type AccountStore interface {
	FindByAccountID(ctx context.Context, accountID id.AccountID) (*accountmodels.Account, error)
	FindByPhoneNumberID(ctx context.Context, pni id.PhoneNumberID) (*accountmodels.Account, error)
	FindByUsernameHash(ctx context.Context, hash []byte) (*accountmodels.Account, error)
	Execute(ctx context.Context, accountID id.AccountID, mutate func(*accountmodels.Account) error) (*accountmodels.Account, error)
}

// ProfileStore persists versioned profiles.
type ProfileStore interface {
	Get(ctx context.Context, accountID id.AccountID, version string) (*models.VersionedProfile, error)
	Set(ctx context.Context, accountID id.AccountID, profile *models.VersionedProfile) error
}

type AvatarManager interface {
	Plan(ctx context.Context, wantsAvatar, sameAvatar bool, previousKey string) (*avatar.Plan, error)
	DiscardObsolete(ctx context.Context, accountID id.AccountID, plan *avatar.Plan)
}

type CredentialGate interface {
	Issue(ctx context.Context, accountID id.AccountID, version string, request []byte, now time.Time) (*credential.Credential, error)
}

type IdentityVerifier interface {
	Verify(ctx context.Context, elements []identitycheck.Element) ([]identitycheck.Mismatch, error)
}

type RateLimiter interface {
	Validate(ctx context.Context, action ratelimitmodels.Action, caller id.AccountID) error
}

// DynamicConfig serves the current hot-reloadable configuration.
type DynamicConfig interface {
	Snapshot() *dynconfig.Snapshot
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
