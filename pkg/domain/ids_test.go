package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "profiles/pkg/domain-errors"
)

// TestParseAccountID_Invariants validates the parsing invariant:
// "identifiers must be valid, non-empty, non-nil UUIDs"
func TestParseAccountID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAccountID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAccountID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAccountID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseAccountID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AccountID(validUUID), id)
	})
}

// TestParseID_SecurityInvariants validates that parsing rejects attack vectors
// at API entry points.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE accounts;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Whitespace only", "   ", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errACI := ParseAccountID(tt.input)
			_, errPNI := ParsePhoneNumberID(tt.input)
			if tt.wantErr {
				require.Error(t, errACI)
				require.Error(t, errPNI)
				assert.True(t, dErrors.HasCode(errACI, dErrors.CodeInvalidInput))
				assert.True(t, dErrors.HasCode(errPNI, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, errACI)
				require.NoError(t, errPNI)
			}
		})
	}
}

func TestParseServiceID(t *testing.T) {
	u := uuid.New()

	t.Run("bare uuid is an account identifier", func(t *testing.T) {
		sid, err := ParseServiceID(u.String())
		require.NoError(t, err)
		aci, ok := sid.AccountID()
		require.True(t, ok)
		assert.Equal(t, AccountID(u), aci)
		assert.Equal(t, u.String(), sid.String())
	})

	t.Run("explicit ACI prefix", func(t *testing.T) {
		sid, err := ParseServiceID("ACI:" + u.String())
		require.NoError(t, err)
		assert.Equal(t, IdentityACI, sid.Type)
	})

	t.Run("PNI prefix", func(t *testing.T) {
		sid, err := ParseServiceID("PNI:" + u.String())
		require.NoError(t, err)
		pni, ok := sid.PhoneNumberID()
		require.True(t, ok)
		assert.Equal(t, PhoneNumberID(u), pni)
		_, ok = sid.AccountID()
		assert.False(t, ok)
		assert.Equal(t, "PNI:"+u.String(), sid.String())
	})

	t.Run("PNI prefix without uuid", func(t *testing.T) {
		_, err := ParseServiceID("PNI:")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, err := ParseServiceID("XYZ:" + u.String())
		require.Error(t, err)
	})
}

// TestTypeDistinction verifies ACI and PNI values stay distinct types.
func TestTypeDistinction(t *testing.T) {
	u := uuid.New()
	aci := AccountID(u)
	pni := PhoneNumberID(u)

	// var _ AccountID = pni  // compile error
	assert.Equal(t, aci.String(), pni.String())
	assert.NotEqual(t, ACIServiceID(aci), PNIServiceID(pni))
}

func TestAccountIDTextRoundTrip(t *testing.T) {
	want := AccountID(uuid.New())
	b, err := json.Marshal(want)
	require.NoError(t, err)
	assert.Equal(t, `"`+want.String()+`"`, string(b))

	var got AccountID
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, want, got)
}
