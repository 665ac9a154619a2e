package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	"paasd/internal/domain"
)

// Verifier verifies a raw credential string and decodes it. Verification
// is pure: no I/O, no side effects, safe for concurrent use.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*AccessToken, error)
}

// HS256Verifier verifies tokens signed with a shared HS256 secret loaded
// once at process start.
type HS256Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewHS256Verifier creates a verifier for HS256-signed access tokens.
func NewHS256Verifier(secret string) (*HS256Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	return &HS256Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Verify checks structure, expiry, and signature — in that order, so an
// expired token reports ErrExpired regardless of signature validity —
// and returns the decoded identity and group set.
func (v *HS256Verifier) Verify(_ context.Context, raw string) (*AccessToken, error) {
	// Structural decode without signature verification. Expiry must be
	// checked even for tokens we would reject on signature grounds.
	var unverified Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if unverified.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}
	if !v.now().Before(unverified.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformed)
	}
	return fromClaims(claims), nil
}

// OIDCVerifier verifies tokens signed by an external identity provider
// using its JWKS (cached by the oidc library, so verification stays free
// of per-request network round trips after warm-up).
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier creates a verifier from an OIDC issuer URL via
// discovery.
func NewOIDCVerifier(ctx context.Context, issuerURL, audience string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
	}, nil
}

// NewOIDCVerifierFromJWKS creates a verifier from a JWKS URL (no
// discovery).
func NewOIDCVerifierFromJWKS(ctx context.Context, jwksURL, issuerURL, audience string) (*OIDCVerifier, error) {
	keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
	return &OIDCVerifier{
		verifier: oidc.NewVerifier(issuerURL, keySet, &oidc.Config{ClientID: audience}),
	}, nil
}

// Verify validates the token against the provider's JWKS and decodes the
// platform claims.
func (v *OIDCVerifier) Verify(ctx context.Context, raw string) (*AccessToken, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, mapOIDCError(err)
	}

	var extra struct {
		LoginID string   `json:"loginId"`
		Groups  []string `json:"groups"`
	}
	if err := idToken.Claims(&extra); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	groups, superAdmin := domain.NormalizeGroups(extra.Groups)
	return &AccessToken{
		Identity:   idToken.Subject,
		LoginID:    extra.LoginID,
		Groups:     groups,
		SuperAdmin: superAdmin,
		IssuedAt:   idToken.IssuedAt,
		ExpiresAt:  idToken.Expiry,
	}, nil
}

// mapOIDCError folds the oidc library's error strings into the codec
// taxonomy. The library does not export sentinel errors, so this is a
// best-effort classification; anything unrecognized counts as a
// signature failure, which fails closed.
func mapOIDCError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "expired"):
		return ErrExpired
	case strings.Contains(msg, "malformed"):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
}
