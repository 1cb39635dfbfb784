// Package auth implements the identity-verification collaborator: HS256
// bearer tokens (issue and verify) and password hashing. The HTTP layer only
// depends on the verify contract, so the token scheme can be swapped without
// touching the pipeline.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
)

// Claims is the token payload. Registered claims carry subject (user id),
// expiry and issue time; custom claims carry what the pipeline needs to
// resolve an Identity without a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	EmailVerified bool        `json:"email_verified"`
}

// Issuer mints signed bearer tokens for authenticated accounts.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
}

// NewIssuer constructs an Issuer. A non-positive ttl falls back to 24h.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{Secret: secret, TTL: ttl}
}

// Issue returns a signed token for the user, valid for the configured TTL.
func (i *Issuer) Issue(u domain.User, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
}

// Verifier resolves bearer tokens to identities. It is the contract the auth
// middleware consumes; JWTVerifier is the production implementation.
type Verifier interface {
	// Verify resolves a raw credential. It returns a token-expired fault
	// for credentials that were once valid and an unauthenticated fault
	// for everything else that fails; it is never called with an empty
	// credential (that is the anonymous case, handled upstream).
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// JWTVerifier validates HS256 tokens minted by Issuer.
type JWTVerifier struct {
	Secret []byte
}

// NewJWTVerifier constructs a JWTVerifier for the given HMAC secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{Secret: secret}
}

// Verify implements Verifier. Expired tokens are reported distinctly from
// malformed or badly signed ones so clients know whether to refresh or
// re-authenticate.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, faults.Wrap(faults.KindTokenExpired, err, "token has expired")
		}
		return nil, faults.Wrap(faults.KindUnauthenticated, err, "invalid token")
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, faults.Unauthenticated("invalid token claims")
	}
	return &domain.Identity{
		ID:            claims.Subject,
		Email:         claims.Email,
		Role:          claims.Role,
		EmailVerified: claims.EmailVerified,
	}, nil
}
