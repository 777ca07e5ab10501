package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/middleware"
	"github.com/upb/secure-access-gateway/utils"
)

// CurrentUserResponse describes the authenticated caller
type CurrentUserResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Source   string   `json:"source"`
}

// UserHandler serves endpoints about the authenticated principal
type UserHandler struct {
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// HandleMe handles GET /api/v1/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	auth := middleware.AuthenticationFromContext(r.Context())
	if auth == nil || auth.Principal == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	roles := auth.Principal.Roles
	if roles == nil {
		roles = []string{}
	}

	if err := utils.WriteOK(w, CurrentUserResponse{
		Username: auth.Principal.Username,
		Roles:    roles,
		Source:   auth.Source,
	}); err != nil {
		h.logger.Error("failed to write current user response", zap.Error(err))
	}
}

// HandleAdminPing handles GET /api/v1/admin/ping
func (h *UserHandler) HandleAdminPing(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := utils.WriteOK(w, map[string]string{
		"status":   "ok",
		"username": principal.Username,
	}); err != nil {
		h.logger.Error("failed to write admin ping response", zap.Error(err))
	}
}
