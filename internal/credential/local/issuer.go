// Package local is a development credential issuer. It binds a request to
// the stored commitment and expiration with an HMAC. It is not a
// zero-knowledge proof system and must not be used where one is required.
package local

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
)

const (
	hkdfInfo        = "profiles/expiring-profile-key-credential/v1"
	maxRequestBytes = 4096
	minSecretBytes  = 32
)

type Issuer struct {
	key []byte
}

// New derives the MAC key from secret.
func New(secret []byte) (*Issuer, error) {
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("credential secret must be at least %d bytes", minSecretBytes)
	}
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	return &Issuer{key: key}, nil
}

// IssueExpiringProfileKeyCredential returns expiration (unix seconds, big
// endian) followed by the MAC over the bound inputs.
func (i *Issuer) IssueExpiringProfileKeyCredential(_ context.Context, request []byte, accountID id.AccountID, commitment []byte, expiration time.Time) ([]byte, error) {
	if len(request) == 0 || len(request) > maxRequestBytes {
		return nil, dErrors.New(dErrors.CodeVerificationFailed, "invalid credential request")
	}
	if len(commitment) == 0 {
		return nil, dErrors.New(dErrors.CodeVerificationFailed, "missing commitment")
	}

	var exp [8]byte
	binary.BigEndian.PutUint64(exp[:], uint64(expiration.Unix()))
	return append(exp[:], i.mac(request, accountID, commitment, exp[:])...), nil
}

func (i *Issuer) mac(request []byte, accountID id.AccountID, commitment, exp []byte) []byte {
	h := hmac.New(sha256.New, i.key)
	h.Write(accountID[:])
	writeLengthPrefixed(h, commitment)
	writeLengthPrefixed(h, request)
	h.Write(exp)
	return h.Sum(nil)
}

func writeLengthPrefixed(w io.Writer, b []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	_, _ = w.Write(n[:])
	_, _ = w.Write(b)
}
