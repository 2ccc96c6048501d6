package service

import (
	"context"
	"errors"

	accountmodels "profiles/internal/account/models"
	"profiles/internal/profile/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/sentinel"
)

// VersionedProfiles applies the read and write rules around stored profiles.
type VersionedProfiles struct {
	profiles ProfileStore
	accounts AccountStore
}

func NewVersionedProfiles(profiles ProfileStore, accounts AccountStore) (*VersionedProfiles, error) {
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	return &VersionedProfiles{profiles: profiles, accounts: accounts}, nil
}

// Get returns the profile stored for account at version, redacted for
// serving, or nil when none exists.
func (v *VersionedProfiles) Get(ctx context.Context, account *accountmodels.Account, version string) (*models.VersionedProfile, error) {
	profile, err := v.Stored(ctx, account.ID, version)
	if err != nil || profile == nil {
		return nil, err
	}
	return Redact(account, version, profile), nil
}

// Stored returns the raw stored profile, or nil when none exists.
func (v *VersionedProfiles) Stored(ctx context.Context, accountID id.AccountID, version string) (*models.VersionedProfile, error) {
	profile, err := v.profiles.Get(ctx, accountID, version)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return profile, nil
}

// Redact drops the payment address unless version is the account's current
// one. Accounts that never recorded a current version match any version.
func Redact(account *accountmodels.Account, version string, profile *models.VersionedProfile) *models.VersionedProfile {
	if !profile.HasPaymentAddress() {
		return profile
	}
	if account.HasCurrentProfileVersion() && account.CurrentProfileVersion != version {
		return profile.WithoutPaymentAddress()
	}
	return profile
}

// Accept stores profile, runs afterWrite once the record is durable, then
// points the account at the new version. badges, when non-nil, computes the
// account's new badge list from its current one in the same update.
func (v *VersionedProfiles) Accept(
	ctx context.Context,
	accountID id.AccountID,
	profile *models.VersionedProfile,
	badges func([]accountmodels.AccountBadge) []accountmodels.AccountBadge,
	afterWrite func(),
) (*accountmodels.Account, error) {
	if err := v.profiles.Set(ctx, accountID, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store profile")
	}
	if afterWrite != nil {
		afterWrite()
	}

	account, err := v.accounts.Execute(ctx, accountID, func(a *accountmodels.Account) error {
		a.CurrentProfileVersion = profile.Version
		if badges != nil {
			a.Badges = badges(a.Badges)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	return account, nil
}
