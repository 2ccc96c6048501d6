package handler

import (
	"encoding/base64"
	"strings"

	"profiles/internal/identitycheck"
	"profiles/internal/profile/models"
	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
)

// SetProfileRequest is the HTTP request body for PUT /v1/profile.
type SetProfileRequest struct {
	Version        string `json:"version"`
	Name           string `json:"name"`
	AboutEmoji     string `json:"aboutEmoji"`
	About          string `json:"about"`
	PaymentAddress string `json:"paymentAddress"`
	Avatar         bool   `json:"avatar"`
	SameAvatar     bool   `json:"sameAvatar"`
	Commitment     string `json:"commitment"`
	// BadgeIDs stays nil when the field is absent from the body.
	BadgeIDs []string `json:"badgeIds"`

	commitment []byte
}

// Validate checks the request shape and decodes the commitment. Field size
// rules are enforced by the domain command.
func (r *SetProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Version = strings.TrimSpace(r.Version)
	if r.Version == "" {
		return dErrors.New(dErrors.CodeValidation, "version is required")
	}
	if r.Commitment == "" {
		return dErrors.New(dErrors.CodeValidation, "commitment is required")
	}
	commitment, err := base64.StdEncoding.DecodeString(r.Commitment)
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "commitment must be base64")
	}
	r.commitment = commitment
	return nil
}

// Command converts the request into a domain command.
func (r *SetProfileRequest) Command() *models.SetProfileCommand {
	return &models.SetProfileCommand{
		Version:        r.Version,
		Commitment:     r.commitment,
		Name:           r.Name,
		AboutEmoji:     r.AboutEmoji,
		About:          r.About,
		PaymentAddress: r.PaymentAddress,
		WantsAvatar:    r.Avatar,
		SameAvatar:     r.SameAvatar,
		BadgeIDs:       r.BadgeIDs,
	}
}

// IdentityCheckRequest is the HTTP request body for POST /v1/profile/identity_check/batch.
type IdentityCheckRequest struct {
	Elements []IdentityCheckElement `json:"elements"`

	parsed []identitycheck.Element
}

// IdentityCheckElement names one account by exactly one of its identifiers.
type IdentityCheckElement struct {
	ACI         string `json:"aci,omitempty"`
	PNI         string `json:"pni,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Validate parses the retained elements. Elements past the batch limit are
// dropped without being inspected.
func (r *IdentityCheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Elements == nil {
		return dErrors.New(dErrors.CodeBadRequest, "elements are required")
	}
	elements := r.Elements
	if len(elements) > identitycheck.MaxBatchSize {
		elements = elements[:identitycheck.MaxBatchSize]
	}
	r.parsed = make([]identitycheck.Element, 0, len(elements))
	for _, e := range elements {
		parsed, err := e.parse()
		if err != nil {
			return err
		}
		r.parsed = append(r.parsed, parsed)
	}
	return nil
}

// ParsedElements returns the elements decoded by Validate.
func (r *IdentityCheckRequest) ParsedElements() []identitycheck.Element {
	return r.parsed
}

func (e IdentityCheckElement) parse() (identitycheck.Element, error) {
	var out identitycheck.Element
	aci, pni := strings.TrimSpace(e.ACI), strings.TrimSpace(e.PNI)
	switch {
	case aci != "" && pni == "":
		accountID, err := id.ParseAccountID(aci)
		if err != nil {
			return out, dErrors.New(dErrors.CodeBadRequest, "invalid aci")
		}
		out.ACI = &accountID
	case pni != "" && aci == "":
		phoneNumberID, err := id.ParsePhoneNumberID(strings.TrimPrefix(pni, string(id.IdentityPNI)+":"))
		if err != nil {
			return out, dErrors.New(dErrors.CodeBadRequest, "invalid pni")
		}
		out.PNI = &phoneNumberID
	default:
		return out, dErrors.New(dErrors.CodeBadRequest, "exactly one of aci or pni must be set")
	}

	fingerprint, err := base64.StdEncoding.DecodeString(e.Fingerprint)
	if err != nil || len(fingerprint) != identitycheck.FingerprintSize {
		return out, dErrors.New(dErrors.CodeBadRequest, "fingerprint must be 4 base64-encoded bytes")
	}
	out.Fingerprint = fingerprint
	return out, nil
}
