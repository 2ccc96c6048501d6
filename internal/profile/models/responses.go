package models

import (
	accountmodels "profiles/internal/account/models"
	"profiles/internal/badge"
)

// CapabilitiesResponse is the capability set advertised in profiles.
type CapabilitiesResponse struct {
	GV1Migration      bool `json:"gv1-migration"`
	SenderKey         bool `json:"senderKey"`
	AnnouncementGroup bool `json:"announcementGroup"`
	ChangeNumber      bool `json:"changeNumber"`
	PaymentActivation bool `json:"paymentActivation"`
}

// NewCapabilitiesResponse maps account capabilities. Every supported client
// handles the group v1 migration, so gv1-migration is always advertised.
func NewCapabilitiesResponse(c accountmodels.Capabilities) CapabilitiesResponse {
	return CapabilitiesResponse{
		GV1Migration:      true,
		SenderKey:         c.SenderKey,
		AnnouncementGroup: c.AnnouncementGroup,
		ChangeNumber:      c.ChangeNumber,
		PaymentActivation: c.PaymentActivation,
	}
}

// BaseProfileResponse is the unversioned part of a profile.
type BaseProfileResponse struct {
	IdentityKey []byte `json:"identityKey"`
	// UnidentifiedAccess is a checksum of the account's unidentified access
	// key, never the key itself.
	UnidentifiedAccess             []byte               `json:"unidentifiedAccess,omitempty"`
	UnrestrictedUnidentifiedAccess bool                 `json:"unrestrictedUnidentifiedAccess"`
	Capabilities                   CapabilitiesResponse `json:"capabilities"`
	Badges                         []badge.Badge        `json:"badges"`
	UUID                           string               `json:"uuid"`
}

// VersionedProfileResponse is a base profile plus the encrypted fields
// stored at one version.
type VersionedProfileResponse struct {
	BaseProfileResponse
	Name           string `json:"name,omitempty"`
	About          string `json:"about,omitempty"`
	AboutEmoji     string `json:"aboutEmoji,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	PaymentAddress string `json:"paymentAddress,omitempty"`
}

// WithProfile copies the encrypted fields of p, which may be nil.
func (r *VersionedProfileResponse) WithProfile(p *VersionedProfile) *VersionedProfileResponse {
	if p == nil {
		return r
	}
	r.Name = p.Name
	r.About = p.About
	r.AboutEmoji = p.AboutEmoji
	r.Avatar = p.Avatar
	r.PaymentAddress = p.PaymentAddress
	return r
}

// CredentialProfileResponse carries an expiring profile key credential when
// one could be issued.
type CredentialProfileResponse struct {
	VersionedProfileResponse
	Credential []byte `json:"credential,omitempty"`
}

// UsernameHashResponse resolves a username hash to an account.
type UsernameHashResponse struct {
	UUID string `json:"uuid"`
}
