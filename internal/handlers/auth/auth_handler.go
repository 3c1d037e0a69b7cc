// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"net/http"

	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/middleware"
	"leaddesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service covers login, session and agent account operations.
type Service interface {
	Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error)
	Me(ctx context.Context, actor *user.Actor) (*user.Summary, error)
	Logout(ctx context.Context, actor *user.Actor) error
	ChangePassword(ctx context.Context, actor *user.Actor, req *user.ChangePasswordRequest) error
	CreateAgent(ctx context.Context, req *user.CreateAgentRequest) (*user.User, error)
	ListAgents(ctx context.Context) ([]user.User, error)
}

type AuthHandler struct {
	authService Service
	logger      *zap.Logger
}

func NewAuthHandler(authService Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Login ==========

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	h.logger.Info("user logged in",
		zap.Int64("user_id", loginResp.User.ID),
		zap.String("role", string(loginResp.User.Role)),
	)

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Session ==========

// GetMe returns the authenticated user's profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	me, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", me)
}

// Logout revokes the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	if err := h.authService.Logout(c.Request.Context(), actor); err != nil {
		h.logger.Error("logout failed",
			zap.Int64("user_id", actor.ID),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// ========== Password Management ==========

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), actor, &req); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "password changed successfully", nil)
}
