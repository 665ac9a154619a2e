// Package token verifies signed access tokens and decodes them into an
// identity plus group memberships. It never issues tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"paasd/internal/domain"
)

// Verification failure taxonomy. All three fail closed: a token that does
// not verify grants nothing.
var (
	// ErrMalformed indicates a structurally invalid credential. Never
	// retried; the caller must re-authenticate.
	ErrMalformed = errors.New("token: malformed credential")

	// ErrSignatureInvalid indicates tampering or a wrong key. Logged as a
	// security event by callers.
	ErrSignatureInvalid = errors.New("token: signature invalid")

	// ErrExpired indicates the credential's expiry is not in the future.
	ErrExpired = errors.New("token: expired")
)

// AccessToken is the decoded, verified credential. Group membership is
// baked in at signing time and carried for the lifetime of the request;
// the token TTL is therefore the upper bound on revocation latency.
type AccessToken struct {
	Identity   string
	LoginID    string
	Groups     []string
	SuperAdmin bool
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Caller converts the token into the domain caller shape carried through
// request context.
func (t *AccessToken) Caller() domain.Caller {
	return domain.Caller{
		Identity:   t.Identity,
		LoginID:    t.LoginID,
		Groups:     t.Groups,
		SuperAdmin: t.SuperAdmin,
	}
}

// Claims is the JWT claim set for platform access tokens.
type Claims struct {
	jwt.RegisteredClaims
	LoginID string   `json:"loginId,omitempty"`
	Groups  []string `json:"groups,omitempty"`
}

// fromClaims builds an AccessToken from a verified claim set, normalizing
// the group set (the super-admin sentinel becomes a flag, checked once
// here rather than at every call site).
func fromClaims(c *Claims) *AccessToken {
	groups, superAdmin := domain.NormalizeGroups(c.Groups)
	tok := &AccessToken{
		Identity:   c.Subject,
		LoginID:    c.LoginID,
		Groups:     groups,
		SuperAdmin: superAdmin,
	}
	if c.IssuedAt != nil {
		tok.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		tok.ExpiresAt = c.ExpiresAt.Time
	}
	return tok
}
