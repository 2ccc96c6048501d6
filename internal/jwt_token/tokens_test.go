package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
)

func newTestService(now time.Time) *Service {
	s := NewService("test-signing-key", "profiles-test", "profiles-api")
	s.now = func() time.Time { return now }
	return s
}

func TestIssueAndParse(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := newTestService(now)
	accountID := id.AccountID(uuid.New())

	token, err := s.IssueDeviceToken(accountID, 3, time.Hour)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	got, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
	assert.Equal(t, uint32(3), claims.DeviceID)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time)

	mw, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), mw.AccountID)
	assert.Equal(t, claims.ID, mw.JTI)
}

func TestIssueRequiresDevice(t *testing.T) {
	_, err := newTestService(time.Now()).IssueDeviceToken(id.AccountID(uuid.New()), 0, time.Hour)
	require.Error(t, err)
}

func TestParseRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := newTestService(now)
	accountID := id.AccountID(uuid.New())

	expired, err := s.IssueDeviceToken(accountID, 1, time.Hour)
	require.NoError(t, err)

	otherAudience := NewService("test-signing-key", "profiles-test", "elsewhere")
	otherAudience.now = s.now
	foreign, err := otherAudience.IssueDeviceToken(accountID, 1, time.Hour)
	require.NoError(t, err)

	otherKey := NewService("another-key", "profiles-test", "profiles-api")
	otherKey.now = s.now
	forged, err := otherKey.IssueDeviceToken(accountID, 1, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{DeviceID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		at      time.Time
		message string
	}{
		{name: "garbage", token: "not-a-token", at: now, message: "invalid token"},
		{name: "expired past leeway", token: expired, at: now.Add(time.Hour + time.Minute), message: "token has expired"},
		{name: "wrong audience", token: foreign, at: now, message: "invalid token"},
		{name: "wrong key", token: forged, at: now, message: "invalid token"},
		{name: "unsigned", token: unsigned, at: now, message: "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newTestService(tt.at)
			_, err := verifier.Parse(tt.token)
			require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, tt.message))
		})
	}
}

func TestParseAllowsClockSkew(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	token, err := newTestService(now).IssueDeviceToken(id.AccountID(uuid.New()), 1, time.Hour)
	require.NoError(t, err)

	_, err = newTestService(now.Add(time.Hour + 10*time.Second)).Parse(token)
	assert.NoError(t, err)
}
