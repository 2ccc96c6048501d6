// Package models holds the account record as seen by the profile service.
//
// Accounts are owned by the account directory. This service reads them and
// mutates only the current profile version pointer and the badge list.
package models

import (
	"slices"
	"time"

	id "profiles/pkg/domain"
)

// AccountBadge is a badge grant on an account.
//
// Invariants:
//   - an account holds at most one grant per badge ID
//   - Expiration is the original grant time plus the badge's grant duration
type AccountBadge struct {
	ID         string
	Expiration time.Time
	Visible    bool
}

// IsExpired reports whether the grant has lapsed at now.
func (b AccountBadge) IsExpired(now time.Time) bool {
	return !now.Before(b.Expiration)
}

// WithVisibility returns a copy of the grant with the given visibility.
func (b AccountBadge) WithVisibility(visible bool) AccountBadge {
	b.Visible = visible
	return b
}

// Capabilities are feature-support flags advertised by the account's devices.
type Capabilities struct {
	SenderKey         bool `json:"senderKey"`
	AnnouncementGroup bool `json:"announcementGroup"`
	ChangeNumber      bool `json:"changeNumber"`
	PaymentActivation bool `json:"paymentActivation"`
}

// Account is a directory entry.
type Account struct {
	ID                             id.AccountID
	PhoneNumberID                  id.PhoneNumberID
	Number                         string
	IdentityKey                    []byte
	PhoneNumberIdentityKey         []byte
	UnidentifiedAccessKey          []byte
	UnrestrictedUnidentifiedAccess bool
	// CurrentProfileVersion is empty when the account has never set a profile.
	CurrentProfileVersion string
	Badges                []AccountBadge
	Enabled               bool
	UsernameHash          []byte
	Capabilities          Capabilities
}

// HasCurrentProfileVersion reports whether a profile version was ever accepted.
func (a *Account) HasCurrentProfileVersion() bool {
	return a.CurrentProfileVersion != ""
}

// IdentityKeyFor returns the public identity key for the given identifier namespace.
func (a *Account) IdentityKeyFor(t id.IdentityType) []byte {
	if t == id.IdentityPNI {
		return a.PhoneNumberIdentityKey
	}
	return a.IdentityKey
}

// ServiceID returns the account's identifier in the given namespace.
func (a *Account) ServiceID(t id.IdentityType) id.ServiceID {
	if t == id.IdentityPNI {
		return id.PNIServiceID(a.PhoneNumberID)
	}
	return id.ACIServiceID(a.ID)
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.IdentityKey = slices.Clone(a.IdentityKey)
	c.PhoneNumberIdentityKey = slices.Clone(a.PhoneNumberIdentityKey)
	c.UnidentifiedAccessKey = slices.Clone(a.UnidentifiedAccessKey)
	c.UsernameHash = slices.Clone(a.UsernameHash)
	c.Badges = slices.Clone(a.Badges)
	return &c
}
