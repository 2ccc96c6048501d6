package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "profiles/pkg/domain-errors"
)

// AccountID is the primary account identifier (ACI).
type AccountID uuid.UUID

// PhoneNumberID is the secondary identifier tied to the account's phone number (PNI).
type PhoneNumberID uuid.UUID

func (a AccountID) String() string { return uuid.UUID(a).String() }
func (a AccountID) IsNil() bool    { return uuid.UUID(a) == uuid.Nil }

func (p PhoneNumberID) String() string { return uuid.UUID(p).String() }
func (p PhoneNumberID) IsNil() bool    { return uuid.UUID(p) == uuid.Nil }

func (a AccountID) MarshalText() ([]byte, error) { return uuid.UUID(a).MarshalText() }

func (a *AccountID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(a).UnmarshalText(b)
}

func (p PhoneNumberID) MarshalText() ([]byte, error) { return uuid.UUID(p).MarshalText() }

func (p *PhoneNumberID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(p).UnmarshalText(b)
}

// ParseAccountID parses a bare UUID into an AccountID.
// Empty, malformed and nil UUIDs are rejected with CodeInvalidInput.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account identifier")
	if err != nil {
		return AccountID{}, err
	}
	return AccountID(u), nil
}

// ParsePhoneNumberID parses a bare UUID into a PhoneNumberID.
func ParsePhoneNumberID(s string) (PhoneNumberID, error) {
	u, err := parseUUID(s, "phone number identifier")
	if err != nil {
		return PhoneNumberID{}, err
	}
	return PhoneNumberID(u), nil
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

// IdentityType names the identifier namespace a ServiceID belongs to.
type IdentityType string

const (
	IdentityACI IdentityType = "ACI"
	IdentityPNI IdentityType = "PNI"
)

// ServiceID addresses an account through either of its identifier namespaces.
//
// String form: bare UUID or "ACI:<uuid>" for account identifiers,
// "PNI:<uuid>" for phone number identifiers.
type ServiceID struct {
	Type IdentityType
	UUID uuid.UUID
}

// ParseServiceID parses the string form of a ServiceID.
func ParseServiceID(s string) (ServiceID, error) {
	if after, ok := strings.CutPrefix(s, string(IdentityPNI)+":"); ok {
		pni, err := ParsePhoneNumberID(after)
		if err != nil {
			return ServiceID{}, err
		}
		return PNIServiceID(pni), nil
	}
	s = strings.TrimPrefix(s, string(IdentityACI)+":")
	aci, err := ParseAccountID(s)
	if err != nil {
		return ServiceID{}, err
	}
	return ACIServiceID(aci), nil
}

func ACIServiceID(a AccountID) ServiceID {
	return ServiceID{Type: IdentityACI, UUID: uuid.UUID(a)}
}

func PNIServiceID(p PhoneNumberID) ServiceID {
	return ServiceID{Type: IdentityPNI, UUID: uuid.UUID(p)}
}

// String renders account identifiers bare and phone number identifiers with their prefix.
func (s ServiceID) String() string {
	if s.Type == IdentityPNI {
		return string(IdentityPNI) + ":" + s.UUID.String()
	}
	return s.UUID.String()
}

// AccountID returns the identifier as an AccountID when it is in the ACI namespace.
func (s ServiceID) AccountID() (AccountID, bool) {
	if s.Type != IdentityACI {
		return AccountID{}, false
	}
	return AccountID(s.UUID), true
}

// PhoneNumberID returns the identifier as a PhoneNumberID when it is in the PNI namespace.
func (s ServiceID) PhoneNumberID() (PhoneNumberID, bool) {
	if s.Type != IdentityPNI {
		return PhoneNumberID{}, false
	}
	return PhoneNumberID(s.UUID), true
}
