// Package models holds versioned profile records and the set-profile command.
package models

import (
	"slices"

	dErrors "profiles/pkg/domain-errors"
)

// VersionedProfile is an account's encrypted profile at one version.
//
// Invariants:
//   - keyed by (account ID, Version); never mutated, only superseded
//   - Commitment is bound to Version and is always present
//   - empty text fields mean absent
type VersionedProfile struct {
	Version        string `json:"version"`
	Name           string `json:"name,omitempty"`
	AboutEmoji     string `json:"aboutEmoji,omitempty"`
	About          string `json:"about,omitempty"`
	PaymentAddress string `json:"paymentAddress,omitempty"`
	// Avatar is the blob storage key, empty when the profile has no avatar.
	Avatar     string `json:"avatar,omitempty"`
	Commitment []byte `json:"commitment"`
}

func (p *VersionedProfile) HasPaymentAddress() bool {
	return p.PaymentAddress != ""
}

func (p *VersionedProfile) HasAvatar() bool {
	return p.Avatar != ""
}

// Clone returns a deep copy.
func (p *VersionedProfile) Clone() *VersionedProfile {
	c := *p
	c.Commitment = slices.Clone(p.Commitment)
	return &c
}

// WithoutPaymentAddress returns a copy with the payment address removed.
func (p *VersionedProfile) WithoutPaymentAddress() *VersionedProfile {
	c := p.Clone()
	c.PaymentAddress = ""
	return c
}

// Encoded (base64) lengths of the encrypted fields produced by clients.
// An empty value is always accepted as absent.
var (
	nameSizes           = []int{108, 380}
	aboutEmojiSizes     = []int{80}
	aboutSizes          = []int{208, 376, 720}
	paymentAddressSizes = []int{776}
)

const maxVersionLength = 128

// SetProfileCommand is a validated request to store a new profile version.
type SetProfileCommand struct {
	Version        string
	Commitment     []byte
	Name           string
	AboutEmoji     string
	About          string
	PaymentAddress string
	WantsAvatar    bool
	SameAvatar     bool
	// BadgeIDs is nil when the client omitted the field; legacy clients
	// never send it and their badge state must not change.
	BadgeIDs []string
}

// Validate enforces required fields and encrypted field sizes.
func (c *SetProfileCommand) Validate() error {
	if c == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if c.Version == "" {
		return dErrors.New(dErrors.CodeValidation, "version is required")
	}
	if len(c.Version) > maxVersionLength {
		return dErrors.New(dErrors.CodeValidation, "version is too long")
	}
	if len(c.Commitment) == 0 {
		return dErrors.New(dErrors.CodeValidation, "commitment is required")
	}
	if err := checkSize("name", c.Name, nameSizes); err != nil {
		return err
	}
	if err := checkSize("aboutEmoji", c.AboutEmoji, aboutEmojiSizes); err != nil {
		return err
	}
	if err := checkSize("about", c.About, aboutSizes); err != nil {
		return err
	}
	return checkSize("paymentAddress", c.PaymentAddress, paymentAddressSizes)
}

func (c *SetProfileCommand) HasPaymentAddress() bool {
	return c.PaymentAddress != ""
}

// Profile builds the record to store for this command with the given avatar key.
func (c *SetProfileCommand) Profile(avatar string) *VersionedProfile {
	return &VersionedProfile{
		Version:        c.Version,
		Name:           c.Name,
		AboutEmoji:     c.AboutEmoji,
		About:          c.About,
		PaymentAddress: c.PaymentAddress,
		Avatar:         avatar,
		Commitment:     slices.Clone(c.Commitment),
	}
}

func checkSize(field, value string, allowed []int) error {
	if value == "" || slices.Contains(allowed, len(value)) {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, field+" has an invalid encoded length")
}
