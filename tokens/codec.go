// Package tokens issues and verifies the HMAC-SHA256 signed access tokens
// used for stateless bearer authentication.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTTL is the lifetime of an issued access token
	DefaultTTL = 30 * time.Minute

	// MinTTL is the shortest lifetime Generate accepts. Token timestamps
	// have whole-second precision.
	MinTTL = time.Second
)

var (
	// ErrMalformed is returned when the token cannot be split or decoded
	ErrMalformed = errors.New("malformed token")

	// ErrInvalidSignature is returned when the signature does not match the signing key
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrUnsupportedAlgorithm is returned when the header names an algorithm other than HS256
	ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")

	// ErrMissingClaim is returned when a required claim is missing
	ErrMissingClaim = errors.New("missing required claim")
)

// signingMethod is the only algorithm the codec issues or accepts
var signingMethod = jwt.SigningMethodHS256

// Codec generates and verifies access tokens.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	keys   KeyProvider
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures a Codec
type Option func(*Codec)

// WithClock overrides the time source used for issuance and expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIssuer sets the iss claim written into generated tokens
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// NewCodec creates a new token codec backed by the given key provider
func NewCodec(keys KeyProvider, opts ...Option) *Codec {
	c := &Codec{
		keys: keys,
		now:  time.Now,
		// Expiry is checked by IsValid, not by the parser, so that an expired
		// token still decodes and callers can tell it apart from a forged one.
		parser: jwt.NewParser(
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate issues a signed token for subject that expires after ttl
func (c *Codec) Generate(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if ttl < MinTTL {
		return "", fmt.Errorf("ttl must be at least %s, got %s", MinTTL, ttl)
	}

	key, err := c.signingKey()
	if err != nil {
		return "", err
	}

	// iat and exp are encoded in whole seconds; truncating first keeps exp
	// no later than now+ttl and never before now.
	now := c.now().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token signature and returns its claims.
// It does not check expiry.
func (c *Codec) Decode(tokenString string) (*ParsedClaims, error) {
	if tokenString == "" {
		return nil, ErrMalformed
	}

	key, err := c.signingKey()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != signingMethod.Alg() {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, classifyParseError(token, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	return parseClaims(claims), nil
}

// IsValid reports whether the token verifies, belongs to expectedSubject and
// has not expired. It never returns an error: every failure is false.
func (c *Codec) IsValid(tokenString, expectedSubject string) bool {
	claims, err := c.Decode(tokenString)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject {
		return false
	}
	return !claims.Expired(c.now())
}

// ExtractSubject verifies the token and returns its sub claim
func (c *Codec) ExtractSubject(tokenString string) (string, error) {
	claims, err := c.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %w: sub", ErrMalformed, ErrMissingClaim)
	}
	return claims.Subject, nil
}

func (c *Codec) signingKey() ([]byte, error) {
	if c.keys == nil {
		return nil, ErrKeyUnavailable
	}
	key, err := c.keys.SigningKey()
	if err != nil {
		if errors.Is(err, ErrKeyUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}
	if len(key) == 0 {
		return nil, ErrKeyUnavailable
	}
	return key, nil
}

// classifyParseError maps golang-jwt errors onto the codec's error kinds
func classifyParseError(token *jwt.Token, err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// alg missing or not registered with the jwt library
		return fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		// Method is only resolved once header and payload have decoded, so
		// the failing segment is the signature.
		if token != nil && token.Method != nil {
			return ErrInvalidSignature
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
