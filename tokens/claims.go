package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims carried by an access token
type Claims struct {
	jwt.RegisteredClaims
}

// ParsedClaims is the flattened view of a decoded token handed to callers
type ParsedClaims struct {
	Subject   string
	Issuer    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the claims are no longer valid at now.
// A token without an expiry is treated as expired.
func (p *ParsedClaims) Expired(now time.Time) bool {
	if p.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(p.ExpiresAt)
}

// ExpiresIn returns the remaining lifetime at now, or zero once expired
func (p *ParsedClaims) ExpiresIn(now time.Time) time.Duration {
	if p.Expired(now) {
		return 0
	}
	return p.ExpiresAt.Sub(now)
}

// parseClaims converts Claims to ParsedClaims
func parseClaims(claims *Claims) *ParsedClaims {
	parsed := &ParsedClaims{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		TokenID: claims.ID,
	}

	// Set time fields if available
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}

	return parsed
}
