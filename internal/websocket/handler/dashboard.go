// internal/websocket/handler/dashboard.go
package handler

import (
	"context"

	"leaddesk-service/internal/domain/callhistory"
	"leaddesk-service/internal/domain/user"
	wstypes "leaddesk-service/internal/domain/websocket"
	ws "leaddesk-service/internal/websocket"
)

// DashboardSource computes a user's follow-up buckets.
type DashboardSource interface {
	Dashboard(ctx context.Context, actor *user.Actor) (*callhistory.Dashboard, error)
}

// DashboardHandler answers dashboard:get over the socket.
type DashboardHandler struct {
	source DashboardSource
}

func NewDashboardHandler(source DashboardSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

func (h *DashboardHandler) Events() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeDashboardGet}
}

func (h *DashboardHandler) Handle(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	d, err := h.source.Dashboard(ctx, client.Actor())
	if err != nil {
		return err
	}

	client.SendMessage(msg.Reply(wstypes.EventTypeDashboard, d))
	return nil
}
