// internal/handlers/notification/notification_handler.go
package notification

import (
	"context"
	"net/http"
	"strconv"

	"leaddesk-service/internal/domain/notification"
	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/middleware"
	"leaddesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Service interface {
	List(ctx context.Context, actor *user.Actor, filters *notification.ListFilters) (*notification.ListResponse, error)
	MarkAsRead(ctx context.Context, actor *user.Actor, id int64) error
	MarkAllAsRead(ctx context.Context, actor *user.Actor) (int64, error)
}

type NotificationHandler struct {
	notificationService Service
}

func NewNotificationHandler(notificationService Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications retrieves paginated notifications for the current user
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	var filters notification.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), actor, &filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	notifID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid notification ID", err)
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), actor, notifID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", nil)
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor := middleware.MustGetActor(c)

	updated, err := h.notificationService.MarkAllAsRead(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "all notifications marked as read", gin.H{"updated": updated})
}
