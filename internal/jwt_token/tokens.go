// Package jwttoken issues and verifies the HS256 device access tokens that
// authenticate profile API callers.
package jwttoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "profiles/pkg/domain"
	dErrors "profiles/pkg/domain-errors"
	authmw "profiles/pkg/platform/middleware/auth"
)

const clockSkew = 30 * time.Second

// Claims identify one device of an account. The account is the subject.
type Claims struct {
	DeviceID uint32 `json:"device_id"`
	jwt.RegisteredClaims
}

// AccountID parses the subject claim.
func (c *Claims) AccountID() (id.AccountID, error) {
	return id.ParseAccountID(c.Subject)
}

type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// IssueDeviceToken signs a token for one device. Production tokens come from
// the account service; this serves demo mode and tests.
func (s *Service) IssueDeviceToken(accountID id.AccountID, deviceID uint32, ttl time.Duration) (string, error) {
	if deviceID == 0 {
		return "", fmt.Errorf("device id is required")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Parse verifies signature, issuer, audience and lifetime.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	case claims.DeviceID == 0:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no device")
	}
	return claims, nil
}

// ValidateToken satisfies authmw.JWTValidator.
func (s *Service) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{
		AccountID: claims.Subject,
		DeviceID:  claims.DeviceID,
		JTI:       claims.ID,
	}, nil
}
