package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/internal/observability"
	"github.com/upb/secure-access-gateway/tokens"
)

// TokenIssuer issues access tokens for a verified subject
type TokenIssuer interface {
	Generate(subject string, ttl time.Duration) (string, error)
}

// AuthService exchanges credentials for access tokens
type AuthService struct {
	verifier CredentialVerifier
	issuer   TokenIssuer
	ttl      time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

// AuthServiceOption configures an AuthService
type AuthServiceOption func(*AuthService)

// WithTokenTTL sets the lifetime of issued tokens. Values below
// tokens.MinTTL are ignored.
func WithTokenTTL(ttl time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		if ttl >= tokens.MinTTL {
			s.ttl = ttl
		}
	}
}

// WithMetrics records login outcomes on m
func WithMetrics(m *observability.Metrics) AuthServiceOption {
	return func(s *AuthService) {
		s.metrics = m
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(verifier CredentialVerifier, issuer TokenIssuer, logger *zap.Logger, opts ...AuthServiceOption) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuthService{
		verifier: verifier,
		issuer:   issuer,
		ttl:      tokens.DefaultTTL,
		logger:   logger,
		tracer:   observability.Tracer("services"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies the credentials and returns a signed access token.
// Unknown usernames and wrong secrets both yield ErrAuthenticationFailed.
func (s *AuthService) Authenticate(ctx context.Context, username, secret string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate",
		trace.WithAttributes(attribute.String("auth.username", username)),
	)
	defer span.End()

	principal, err := s.verifier.Verify(ctx, username, secret)
	if err != nil {
		if IsInternalError(err) {
			s.metrics.RecordLogin(observability.LoginError)
			span.RecordError(err)
			span.SetStatus(codes.Error, "credential verification failed")
			s.logger.Error("credential verification failed",
				zap.String("username", username),
				zap.Error(err),
			)
			return "", err
		}

		s.metrics.RecordLogin(observability.LoginRejected)
		span.SetStatus(codes.Error, "authentication failed")
		s.logger.Info("login rejected",
			zap.String("username", username),
			zap.String("reason", string(GetErrorType(err))),
		)
		return "", ErrAuthenticationFailed
	}

	token, err := s.issuer.Generate(principal.Username, s.ttl)
	if err != nil {
		s.metrics.RecordLogin(observability.LoginError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "token generation failed")
		s.logger.Error("failed to issue token",
			zap.String("username", principal.Username),
			zap.Error(err),
		)
		return "", WrapInternal("failed to issue token", err)
	}

	s.metrics.RecordLogin(observability.LoginSucceeded)
	s.logger.Info("login succeeded",
		zap.String("username", principal.Username),
		zap.Strings("roles", principal.Roles),
	)
	return token, nil
}
