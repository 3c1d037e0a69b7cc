// internal/handlers/callhistory/callhistory.go
package callhistory

import (
	"context"
	"net/http"
	"strconv"

	"leaddesk-service/internal/domain/callhistory"
	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/middleware"
	"leaddesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Service interface {
	CreateCallHistory(ctx context.Context, actor *user.Actor, req *callhistory.CreateCallHistoryRequest) (*callhistory.CallHistory, error)
	ListCallHistories(ctx context.Context, actor *user.Actor, filters *callhistory.ListFilters) ([]callhistory.View, error)
	ListByAgent(ctx context.Context, actor *user.Actor, agentID int64) ([]callhistory.View, error)
	Dashboard(ctx context.Context, actor *user.Actor) (*callhistory.Dashboard, error)
}

type CallHistoryHandler struct {
	service Service
}

func NewCallHistoryHandler(service Service) *CallHistoryHandler {
	return &CallHistoryHandler{service: service}
}

// CreateCallHistory records a call against a lead the caller may access.
func (h *CallHistoryHandler) CreateCallHistory(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var req callhistory.CreateCallHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.service.CreateCallHistory(c.Request.Context(), actor, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "call history created successfully", result)
}

func (h *CallHistoryHandler) ListCallHistories(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var filters callhistory.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.service.ListCallHistories(c.Request.Context(), actor, &filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "call histories retrieved", result)
}

func (h *CallHistoryHandler) ListByAgent(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	agentID, err := strconv.ParseInt(c.Param("agentId"), 10, 64)
	if err != nil || agentID <= 0 {
		response.ValidationError(c, "invalid agent ID", err)
		return
	}

	result, err := h.service.ListByAgent(c.Request.Context(), actor, agentID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "call histories retrieved", result)
}

// Dashboard returns follow-ups bucketed into yesterday, today and later.
func (h *CallHistoryHandler) Dashboard(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	result, err := h.service.Dashboard(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved", result)
}
