// Package identitycheck compares clients' cached identity key fingerprints
// against the directory and reports only mismatches.
package identitycheck

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"golang.org/x/sync/errgroup"

	"profiles/internal/account/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	"profiles/pkg/platform/sentinel"
)

const (
	// MaxBatchSize bounds how many elements of one request are examined.
	// Elements past the bound are dropped without error.
	MaxBatchSize = 1000

	// FingerprintSize is the length of a truncated identity key digest.
	FingerprintSize = 4

	defaultConcurrency = 16
)

// Element is one claimed fingerprint. Exactly one of ACI and PNI is set.
type Element struct {
	ACI         *id.AccountID
	PNI         *id.PhoneNumberID
	Fingerprint []byte
}

// Mismatch reports the current identity key for a mismatching element.
type Mismatch struct {
	ACI         *id.AccountID
	PNI         *id.PhoneNumberID
	IdentityKey []byte
}

type AccountFinder interface {
	FindByAccountID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByPhoneNumberID(ctx context.Context, pni id.PhoneNumberID) (*models.Account, error)
}

type Verifier struct {
	accounts    AccountFinder
	concurrency int
}

type Option func(*Verifier)

// WithConcurrency bounds parallel directory lookups.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

func New(accounts AccountFinder, opts ...Option) (*Verifier, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	v := &Verifier{accounts: accounts, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Fingerprint is the first FingerprintSize bytes of SHA-256(identityKey).
func Fingerprint(identityKey []byte) []byte {
	sum := sha256.Sum256(identityKey)
	return sum[:FingerprintSize]
}

// Validate checks the shape of every element. One bad element fails the
// whole batch.
func Validate(elements []Element) error {
	for _, e := range elements {
		if (e.ACI == nil) == (e.PNI == nil) {
			return dErrors.New(dErrors.CodeBadRequest, "exactly one of aci or pni must be set")
		}
		if len(e.Fingerprint) != FingerprintSize {
			return dErrors.New(dErrors.CodeBadRequest, "fingerprint must be 4 bytes")
		}
	}
	return nil
}

// Truncate drops elements past MaxBatchSize.
func Truncate(elements []Element) []Element {
	if len(elements) > MaxBatchSize {
		return elements[:MaxBatchSize]
	}
	return elements
}

// Verify truncates and validates the batch, then returns mismatches in
// input order. Elements whose account cannot be resolved or is disabled
// are omitted.
func (v *Verifier) Verify(ctx context.Context, elements []Element) ([]Mismatch, error) {
	elements = Truncate(elements)
	if err := Validate(elements); err != nil {
		return nil, err
	}

	results := make([]*Mismatch, len(elements))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, e := range elements {
		g.Go(func() error {
			m, err := v.check(gctx, e)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check identities")
	}

	mismatches := make([]Mismatch, 0)
	for _, m := range results {
		if m != nil {
			mismatches = append(mismatches, *m)
		}
	}
	return mismatches, nil
}

func (v *Verifier) check(ctx context.Context, e Element) (*Mismatch, error) {
	var (
		account *models.Account
		kind    id.IdentityType
		err     error
	)
	if e.ACI != nil {
		kind = id.IdentityACI
		account, err = v.accounts.FindByAccountID(ctx, *e.ACI)
	} else {
		kind = id.IdentityPNI
		account, err = v.accounts.FindByPhoneNumberID(ctx, *e.PNI)
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !account.Enabled {
		return nil, nil
	}

	key := account.IdentityKeyFor(kind)
	if subtle.ConstantTimeCompare(Fingerprint(key), e.Fingerprint) == 1 {
		return nil, nil
	}
	return &Mismatch{ACI: e.ACI, PNI: e.PNI, IdentityKey: key}, nil
}
