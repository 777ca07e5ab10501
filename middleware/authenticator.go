package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/internal/observability"
	"github.com/upb/secure-access-gateway/models"
)

// bearerPrefix is the scheme prefix expected in the Authorization header
const bearerPrefix = "Bearer "

// TokenValidator defines the token operations the authenticator depends on
type TokenValidator interface {
	// ExtractSubject verifies the token and returns its subject
	ExtractSubject(token string) (string, error)

	// IsValid reports whether the token is valid for subject and unexpired
	IsValid(token, subject string) bool
}

// PrincipalResolver resolves identity and roles for a subject
type PrincipalResolver interface {
	Lookup(ctx context.Context, username string) (*models.Principal, error)
}

// Authenticator establishes an AuthenticatedContext from a bearer token.
// It never rejects a request: requests without a usable token pass through
// unauthenticated and the access-control layer decides.
type Authenticator struct {
	tokens     TokenValidator
	principals PrincipalResolver
	logger     *zap.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
}

// NewAuthenticator creates a new request authenticator
func NewAuthenticator(tokens TokenValidator, principals PrincipalResolver, logger *zap.Logger, metrics *observability.Metrics) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		tokens:     tokens,
		principals: principals,
		logger:     logger,
		metrics:    metrics,
		tracer:     observability.Tracer("middleware"),
	}
}

// Authenticate is the middleware entry point
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := a.authenticate(r)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate returns the request context, carrying an AuthenticatedContext
// when the bearer token checks out
func (a *Authenticator) authenticate(r *http.Request) context.Context {
	ctx := r.Context()
	requestID := GetRequestIDFromContext(ctx)

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		a.metrics.RecordTokenCheck(observability.TokenAbsent)
		return ctx
	}
	token := strings.TrimPrefix(header, bearerPrefix)

	ctx, span := a.tracer.Start(ctx, "Authenticator.Authenticate")
	defer span.End()

	subject, err := a.tokens.ExtractSubject(token)
	if err != nil {
		a.metrics.RecordTokenCheck(observability.TokenRejected)
		span.SetAttributes(attribute.String("auth.outcome", "undecodable"))
		a.logger.Debug("bearer token not usable",
			zap.String("request_id", requestID),
			zap.Error(err))
		return r.Context()
	}

	if AuthenticationFromContext(ctx) != nil {
		a.metrics.RecordTokenCheck(observability.TokenSkipped)
		return r.Context()
	}

	principal, err := a.principals.Lookup(ctx, subject)
	if err != nil {
		a.metrics.RecordTokenCheck(observability.TokenRejected)
		span.SetAttributes(attribute.String("auth.outcome", "unknown_principal"))
		a.logger.Debug("bearer token subject not resolvable",
			zap.String("request_id", requestID),
			zap.String("sub", subject),
			zap.Error(err))
		return r.Context()
	}

	if !a.tokens.IsValid(token, subject) {
		a.metrics.RecordTokenCheck(observability.TokenRejected)
		span.SetAttributes(attribute.String("auth.outcome", "invalid"))
		a.logger.Debug("bearer token expired or invalid",
			zap.String("request_id", requestID),
			zap.String("sub", subject))
		return r.Context()
	}

	a.metrics.RecordTokenCheck(observability.TokenAuthenticated)
	span.SetAttributes(
		attribute.String("auth.outcome", "authenticated"),
		attribute.String("auth.subject", principal.Username),
	)
	a.logger.Debug("authentication successful",
		zap.String("request_id", requestID),
		zap.String("sub", principal.Username),
		zap.Strings("roles", principal.Roles))

	return WithAuthentication(r.Context(), &AuthenticatedContext{
		Principal: principal,
		Source:    SourceToken,
	})
}
