// internal/handlers/auth/agent_handler.go
package auth

import (
	"net/http"

	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateAgent registers a new agent account (admin only)
func (h *AuthHandler) CreateAgent(c *gin.Context) {
	var req user.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	agent, err := h.authService.CreateAgent(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.logger.Info("agent created",
		zap.Int64("agent_id", agent.ID),
		zap.String("agent_code", agent.AgentCode),
	)
	response.Success(c, http.StatusCreated, "agent created successfully", agent.Summary())
}

// ListAgents returns every agent account (admin only)
func (h *AuthHandler) ListAgents(c *gin.Context) {
	agents, err := h.authService.ListAgents(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]user.Summary, 0, len(agents))
	for i := range agents {
		out = append(out, agents[i].Summary())
	}
	response.Success(c, http.StatusOK, "agents retrieved", out)
}
