// internal/app/router.go
package app

import (
	"net/http"

	authHandler "leaddesk-service/internal/handlers/auth"
	callHandler "leaddesk-service/internal/handlers/callhistory"
	customerHandler "leaddesk-service/internal/handlers/customer"
	notifyHandler "leaddesk-service/internal/handlers/notification"
	uploadHandler "leaddesk-service/internal/handlers/upload"
	wsHandler "leaddesk-service/internal/handlers/websocket"
	"leaddesk-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	CustomerHandler    *customerHandler.CustomerHandler
	CallHistoryHandler *callHandler.CallHistoryHandler
	UploadHandler      *uploadHandler.UploadHandler
	NotifHandler       *notifyHandler.NotificationHandler
	WSHandler          *wsHandler.WebSocketHandler
	AuthMiddleware     *middleware.AuthMiddleware

	// UploadDir is served statically when files are kept on local disk.
	UploadDir string
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	if h.UploadDir != "" {
		r.Static("/"+h.UploadDir, "./"+h.UploadDir)
	}

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	api := r.Group("/api")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== Auth ====================
	api.POST("/auth/login", h.AuthHandler.Login)

	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.AuthHandler.GetMe)
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.PUT("/password", h.AuthHandler.ChangePassword)
	}

	// ==================== Agents (admin) ====================
	agents := api.Group("/agents")
	agents.Use(h.AuthMiddleware.AdminOnly()...)
	{
		agents.POST("", h.AuthHandler.CreateAgent)
		agents.GET("", h.AuthHandler.ListAgents)
	}

	// ==================== Customers ====================
	customers := api.Group("/customers")
	customers.Use(h.AuthMiddleware.Auth())
	{
		customers.POST("", h.CustomerHandler.CreateCustomer)
		customers.GET("", h.CustomerHandler.ListCustomers)
		customers.POST("/upload-csv", h.AuthMiddleware.RequireAdmin(), h.CustomerHandler.UploadCustomers)
		customers.GET("/:id", h.CustomerHandler.GetCustomer)
		customers.PUT("/:id", h.CustomerHandler.UpdateCustomer)
		customers.DELETE("/:id", h.CustomerHandler.DeleteCustomer)
		customers.POST("/:id/assign", h.AuthMiddleware.RequireAdmin(), h.CustomerHandler.AssignCustomer)
		customers.POST("/:id/unassign", h.AuthMiddleware.RequireAdmin(), h.CustomerHandler.UnassignCustomer)
	}

	// ==================== Call histories ====================
	calls := api.Group("/call-histories")
	calls.Use(h.AuthMiddleware.Auth())
	{
		calls.POST("", h.CallHistoryHandler.CreateCallHistory)
		calls.GET("", h.CallHistoryHandler.ListCallHistories)
		calls.GET("/all", h.CallHistoryHandler.Dashboard)
		calls.GET("/agent/:agentId", h.CallHistoryHandler.ListByAgent)
	}

	// ==================== Uploads ====================
	api.POST("/uploads", h.AuthMiddleware.Auth(), h.UploadHandler.Upload)

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.GetNotifications)
		notifications.PUT("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllAsRead)
	}

	// ==================== Admin ====================
	api.GET("/admin/ws-stats", append(h.AuthMiddleware.AdminOnly(), h.WSHandler.GetStats)...)
}
