// Package credential gates profile key credential issuance on stored
// profile state and delegates proof construction to an Issuer.
package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountmodels "profiles/internal/account/models"
	profilemodels "profiles/internal/profile/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/sentinel"
)

const (
	// TypeExpiringProfileKey is the only credential type issued.
	TypeExpiringProfileKey = "expiringProfileKey"

	// Lifetime is how long an issued credential is valid before day truncation.
	Lifetime = 7 * 24 * time.Hour
)

// ValidateType rejects credential types other than TypeExpiringProfileKey.
func ValidateType(credentialType string) error {
	if credentialType != TypeExpiringProfileKey {
		return dErrors.New(dErrors.CodeBadRequest, "unsupported credential type")
	}
	return nil
}

// Issuer constructs a credential response for a client request. It returns
// a CodeVerificationFailed error when the request is malformed.
type Issuer interface {
	IssueExpiringProfileKeyCredential(ctx context.Context, request []byte, accountID id.AccountID, commitment []byte, expiration time.Time) ([]byte, error)
}

type AccountReader interface {
	FindByAccountID(ctx context.Context, accountID id.AccountID) (*accountmodels.Account, error)
}

type ProfileReader interface {
	Get(ctx context.Context, accountID id.AccountID, version string) (*profilemodels.VersionedProfile, error)
}

// Credential is an issued credential bound to its expiration.
type Credential struct {
	Type       string
	Response   []byte
	Expiration time.Time
}

// Gate checks that a credential request matches stored state.
type Gate struct {
	accounts AccountReader
	profiles ProfileReader
	issuer   Issuer
}

func NewGate(accounts AccountReader, profiles ProfileReader, issuer Issuer) (*Gate, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if issuer == nil {
		return nil, errors.New("credential issuer is required")
	}
	return &Gate{accounts: accounts, profiles: profiles, issuer: issuer}, nil
}

// ExpirationFor returns the expiration of a credential issued at now: the
// fixed lifetime later, truncated to the start of that UTC day.
func ExpirationFor(now time.Time) time.Time {
	return now.Add(Lifetime).UTC().Truncate(24 * time.Hour)
}

// Issue returns a credential for the commitment stored at (accountID,
// version). A version with no stored profile yields a nil credential and
// no error.
func (g *Gate) Issue(ctx context.Context, accountID id.AccountID, version string, request []byte, now time.Time) (*Credential, error) {
	account, err := g.accounts.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if !account.Enabled {
		return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
	}

	profile, err := g.profiles.Get(ctx, accountID, version)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	expiration := ExpirationFor(now)
	response, err := g.issuer.IssueExpiringProfileKeyCredential(ctx, request, accountID, profile.Commitment, expiration)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeVerificationFailed) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to issue %s credential", TypeExpiringProfileKey))
	}
	return &Credential{
		Type:       TypeExpiringProfileKey,
		Response:   response,
		Expiration: expiration,
	}, nil
}
