package tokens

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrKeyUnavailable is returned when the key provider cannot supply a signing key
var ErrKeyUnavailable = errors.New("signing key unavailable")

// KeyProvider supplies the current HMAC signing key.
// Implementations must be safe for concurrent use.
type KeyProvider interface {
	SigningKey() ([]byte, error)
}

// StaticKeyProvider holds a single key loaded once at process start
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider copies the given secret into a new provider
func NewStaticKeyProvider(secret []byte) (*StaticKeyProvider, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty secret", ErrKeyUnavailable)
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &StaticKeyProvider{key: key}, nil
}

// NewFileKeyProvider reads the secret from a file (e.g. a mounted secret volume).
// Surrounding whitespace is trimmed.
func NewFileKeyProvider(path string) (*StaticKeyProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrKeyUnavailable, path, err)
	}
	return NewStaticKeyProvider([]byte(strings.TrimSpace(string(data))))
}

// SigningKey returns the key
func (p *StaticKeyProvider) SigningKey() ([]byte, error) {
	return p.key, nil
}
