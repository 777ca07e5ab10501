package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/utils"
)

// AccessControl enforces route policy on top of the Authenticator
type AccessControl struct {
	logger *zap.Logger
}

// NewAccessControl creates a new access-control layer
func NewAccessControl(logger *zap.Logger) *AccessControl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessControl{logger: logger}
}

// RequireAuthenticated rejects requests that carry no AuthenticatedContext
func (m *AccessControl) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if AuthenticationFromContext(ctx) == nil {
			m.logger.Debug("unauthenticated request rejected",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole is a middleware that requires a specific role
func (m *AccessControl) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			principal := GetPrincipalFromContext(ctx)
			if principal == nil {
				m.logger.Debug("unauthenticated request rejected",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path))
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if !principal.HasRole(role) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("username", principal.Username),
					zap.String("required_role", role),
					zap.Strings("roles", principal.Roles))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
