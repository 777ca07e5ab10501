package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/upb/secure-access-gateway/models"
	"github.com/upb/secure-access-gateway/repositories"
)

// CredentialVerifier checks username/secret pairs against the principal store
type CredentialVerifier interface {
	// Verify returns the principal when the secret matches.
	// Fails with ErrUnknownPrincipal or ErrBadCredential.
	Verify(ctx context.Context, username, secret string) (*models.Principal, error)

	// Lookup resolves identity and roles without checking a secret
	Lookup(ctx context.Context, username string) (*models.Principal, error)
}

// StoreVerifier verifies credentials against bcrypt hashes held in a UserRepository
type StoreVerifier struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknownUserHash is compared against when the username does not exist so
// that unknown and known usernames take the same time to reject.
func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-principal"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// NewStoreVerifier creates a new credential verifier
func NewStoreVerifier(users repositories.UserRepository, logger *zap.Logger) *StoreVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreVerifier{
		users:  users,
		logger: logger,
	}
}

// Verify checks the secret for username
func (v *StoreVerifier) Verify(ctx context.Context, username, secret string) (*models.Principal, error) {
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(secret))
			return nil, ErrUnknownPrincipal
		}
		return nil, WrapInternal("principal lookup failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			v.logger.Warn("stored password hash is unusable",
				zap.String("username", username),
				zap.Error(err),
			)
		}
		return nil, ErrBadCredential
	}

	return user.Principal(), nil
}

// Lookup resolves the principal for username
func (v *StoreVerifier) Lookup(ctx context.Context, username string) (*models.Principal, error) {
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownPrincipal
		}
		return nil, WrapInternal("principal lookup failed", err)
	}
	return user.Principal(), nil
}

// HashPassword hashes a password with the default bcrypt cost
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, bcrypt.DefaultCost)
}

// HashPasswordWithCost hashes a password with an explicit bcrypt cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// EnsureUser creates username with the given password and roles unless it
// already exists. An existing account is left untouched.
func EnsureUser(ctx context.Context, users repositories.UserRepository, username, password string, roles ...string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	if err := users.Create(ctx, models.NewUser(username, hash, roles...)); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to seed user %s: %w", username, err)
	}
	return nil
}
