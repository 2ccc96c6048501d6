package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	accountmodels "profiles/internal/account/models"
	ratelimitmodels "profiles/internal/ratelimit/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/sentinel"
)

// Access is how a fetch is authorized: an authenticated caller, or an
// unidentified access key presented for the target.
type Access struct {
	Caller                *id.AccountID
	UnidentifiedAccessKey []byte
}

// Identified builds Access for an authenticated caller.
func Identified(caller id.AccountID) Access {
	return Access{Caller: &caller}
}

// Unidentified builds Access for an anonymous caller holding key.
func Unidentified(key []byte) Access {
	return Access{UnidentifiedAccessKey: key}
}

func (a Access) kind() string {
	switch {
	case a.Caller != nil:
		return "identified"
	case len(a.UnidentifiedAccessKey) > 0:
		return "unidentified"
	default:
		return "none"
	}
}

var errUnauthorized = dErrors.New(dErrors.CodeUnauthorized, "unauthorized")

// target is a resolved fetch target.
type target struct {
	account *accountmodels.Account
	idType  id.IdentityType
	isSelf  bool
}

// authorize resolves the target of a fetch. Identified callers are rate
// limited and learn whether the target exists. Unidentified callers only
// see Unauthorized on any failure.
func (s *Service) authorize(ctx context.Context, access Access, serviceID id.ServiceID) (*target, error) {
	if access.Caller != nil {
		caller, err := s.requireEnabledCaller(ctx, *access.Caller)
		if err != nil {
			return nil, err
		}
		if err := s.limiter.Validate(ctx, ratelimitmodels.ActionProfileFetch, caller.ID); err != nil {
			return nil, err
		}
		account, err := s.resolve(ctx, serviceID)
		if err != nil {
			return nil, err
		}
		if account == nil || !account.Enabled {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return &target{
			account: account,
			idType:  serviceID.Type,
			isSelf:  serviceID.Type == id.IdentityACI && account.ID == caller.ID,
		}, nil
	}

	if len(access.UnidentifiedAccessKey) == 0 {
		return nil, errUnauthorized
	}
	if serviceID.Type != id.IdentityACI {
		return nil, errUnauthorized
	}
	account, err := s.resolve(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.Enabled || !unidentifiedAccessAllowed(account, access.UnidentifiedAccessKey) {
		return nil, errUnauthorized
	}
	return &target{account: account, idType: id.IdentityACI}, nil
}

func (s *Service) requireEnabledCaller(ctx context.Context, callerID id.AccountID) (*accountmodels.Account, error) {
	caller, err := s.accounts.FindByAccountID(ctx, callerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, errUnauthorized
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load caller")
	}
	if !caller.Enabled {
		return nil, errUnauthorized
	}
	return caller, nil
}

// resolve returns nil without error when no account has the identifier.
func (s *Service) resolve(ctx context.Context, serviceID id.ServiceID) (*accountmodels.Account, error) {
	var (
		account *accountmodels.Account
		err     error
	)
	if pni, ok := serviceID.PhoneNumberID(); ok {
		account, err = s.accounts.FindByPhoneNumberID(ctx, pni)
	} else {
		aci, _ := serviceID.AccountID()
		account, err = s.accounts.FindByAccountID(ctx, aci)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return account, nil
}

func unidentifiedAccessAllowed(account *accountmodels.Account, key []byte) bool {
	if account.UnrestrictedUnidentifiedAccess {
		return true
	}
	if len(account.UnidentifiedAccessKey) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(account.UnidentifiedAccessKey, key) == 1
}

// UnidentifiedAccessChecksum lets clients confirm they hold the right key
// without the server revealing it.
func UnidentifiedAccessChecksum(key []byte) []byte {
	if len(key) == 0 {
		return nil
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(make([]byte, 32))
	return mac.Sum(nil)
}
