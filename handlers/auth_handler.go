package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/middleware"
	"github.com/upb/secure-access-gateway/utils"
)

// checkMessage is the fixed body of the auth liveness endpoint
const checkMessage = "Authentication service is up!"

// Authenticator exchanges credentials for an access token
type Authenticator interface {
	Authenticate(ctx context.Context, username, secret string) (string, error)
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles the public authentication endpoints
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	token, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("login failed",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.String("username", req.Username))
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, LoginResponse{Token: token}); err != nil {
		h.logger.Error("failed to write login response", zap.Error(err))
	}
}

// HandleCheck handles GET /auth/check
func (h *AuthHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if err := utils.WriteText(w, http.StatusOK, checkMessage); err != nil {
		h.logger.Error("failed to write check response", zap.Error(err))
	}
}
