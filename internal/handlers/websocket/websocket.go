// internal/handlers/websocket/websocket.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/middleware"
	"leaddesk-service/internal/pkg/response"
	ws "leaddesk-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub is the part of the socket hub the HTTP layer needs.
type Hub interface {
	AuthenticateClient(ctx context.Context, token string) (*user.Actor, error)
	Attach(conn *websocket.Conn, actor *user.Actor)
	Stats() ws.Stats
}

type WebSocketHandler struct {
	hub      Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketHandler(hub Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleConnection authenticates with the same checks as the REST API before upgrading.
// Browsers cannot set headers on a socket, so ?token= is accepted as well.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.ExtractBearer(c.GetHeader("Authorization"))
	}

	actor, err := h.hub.AuthenticateClient(c.Request.Context(), token)
	if token == "" || err != nil {
		h.logger.Warn("websocket authentication failed", zap.String("ip", c.ClientIP()))
		response.Unauthorized(c, response.MsgUnauthenticated)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", zap.Error(err), zap.String("ip", c.ClientIP()))
		return
	}
	h.hub.Attach(conn, actor)
}

// GetStats reports live socket counts.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, "websocket stats", gin.H{
		"stats":     h.hub.Stats(),
		"timestamp": time.Now().UTC(),
	})
}
