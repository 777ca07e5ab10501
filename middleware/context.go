package middleware

import (
	"context"

	"github.com/upb/secure-access-gateway/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// AuthenticationKey is the context key for the authenticated context
	AuthenticationKey contextKey = "authentication"
)

// SourceToken marks an authentication established from a bearer token
const SourceToken = "token"

// AuthenticatedContext is the proof that a request was authenticated.
// It lives only for the duration of one request.
type AuthenticatedContext struct {
	Principal *models.Principal `json:"principal"`
	Source    string            `json:"source"`
}

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// AuthenticationFromContext retrieves the authenticated context, or nil
func AuthenticationFromContext(ctx context.Context) *AuthenticatedContext {
	if val := ctx.Value(AuthenticationKey); val != nil {
		if auth, ok := val.(*AuthenticatedContext); ok {
			return auth
		}
	}
	return nil
}

// WithAuthentication adds the authenticated context to the context
func WithAuthentication(ctx context.Context, auth *AuthenticatedContext) context.Context {
	return context.WithValue(ctx, AuthenticationKey, auth)
}

// GetPrincipalFromContext retrieves the authenticated principal, or nil
func GetPrincipalFromContext(ctx context.Context) *models.Principal {
	if auth := AuthenticationFromContext(ctx); auth != nil {
		return auth.Principal
	}
	return nil
}
