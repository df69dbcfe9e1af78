// Package auth provides the signed entitlement token carried in a client
// cookie. Stateless by design - no session store, the token is the record.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zackdaniels09/autopitch-ai/domain/entitlement"
	"github.com/zackdaniels09/autopitch-ai/ports"
)

// CookieName is the entitlement cookie set on successful claims.
const CookieName = "ap_ent"

// tokenClaims is the JWT payload asserting a plan until expiry.
type tokenClaims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

// CookieSigner issues and verifies HS256-signed entitlement tokens.
// Thread-safe and suitable for concurrent use.
type CookieSigner struct {
	secret   []byte
	issuer   string
	validity time.Duration
}

// NewCookieSigner creates a signer with the given secret and validity
// window. A zero validity defaults to 30 days.
func NewCookieSigner(secret string, validity time.Duration) *CookieSigner {
	if validity == 0 {
		validity = entitlement.DefaultValidity
	}
	return &CookieSigner{
		secret:   []byte(secret),
		issuer:   "autopitch",
		validity: validity,
	}
}

// Issue creates a signed token asserting the plan until now+validity.
func (s *CookieSigner) Issue(plan entitlement.Plan, now time.Time) (string, time.Time, error) {
	now = now.UTC()
	expiresAt := now.Add(s.validity)

	claims := tokenClaims{
		Plan: string(plan),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a token and returns its entitlement claims.
// Expiry is checked by the JWT library during parsing.
func (s *CookieSigner) Verify(tokenString string) (entitlement.Claims, error) {
	// HS256 over an empty key is still valid HMAC, so a missing secret
	// would verify attacker-minted tokens. Refuse to verify anything.
	if len(s.secret) == 0 {
		return entitlement.Claims{}, errors.New("signing secret not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return entitlement.Claims{}, err
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return entitlement.Claims{}, errors.New("invalid token")
	}

	return entitlement.Claims{
		Plan:      entitlement.ParsePlan(claims.Plan),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Ensure interface compliance.
var _ ports.EntitlementSigner = (*CookieSigner)(nil)
