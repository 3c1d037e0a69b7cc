// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"
	wstypes "leaddesk-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Actor, error)
}

type Hub struct {
	// Registered clients by user ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	router *eventRouter

	auth   Authenticator
	logger *zap.Logger
}

type BroadcastMessage struct {
	UserIDs []int64
	Message *wstypes.WSMessage
}

func NewHub(auth Authenticator, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan *BroadcastMessage, 256),
		router:     newEventRouter(pingHandler{}),
		auth:       auth,
		logger:     logger,
	}
}

// AuthenticateClient applies the same token checks as the HTTP auth middleware.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*user.Actor, error) {
	actor, err := h.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return actor, nil
}

// RegisterHandler routes the handler's events to it.
func (h *Hub) RegisterHandler(handler EventHandler) {
	for _, t := range h.router.add(handler) {
		h.logger.Warn("websocket event handler replaced", zap.String("type", string(t)))
	}
}

// HandleClientMessage processes a message from a client using registered handlers.
// It reports whether a handler claimed the message.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler := h.router.lookup(msg.Type)
	if handler == nil {
		return false, nil
	}
	return true, handler.Handle(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.actor.ID] == nil {
		h.clients[client.actor.ID] = make(map[*Client]bool)
	}
	h.clients[client.actor.ID][client] = true
	total := h.totalClients()
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.Int64("user_id", client.actor.ID),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"userId": client.actor.ID,
		"role":   client.actor.Role,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.actor.ID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.actor.ID)
			}

			h.logger.Info("websocket client disconnected",
				zap.Int64("user_id", client.actor.ID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

// deliver sends msg to the named users, or to everyone when UserIDs is nil.
func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.UserIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.SendMessage(msg.Message)
			}
		}
		return
	}

	for _, id := range msg.UserIDs {
		for client := range h.clients[id] {
			client.SendMessage(msg.Message)
		}
	}
}

// publish queues a message without blocking the caller. A full queue drops it.
func (h *Hub) publish(userIDs []int64, msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- &BroadcastMessage{UserIDs: userIDs, Message: msg}:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event", zap.String("type", string(msg.Type)))
	}
}

// Attach registers a socket for actor and starts its pumps.
func (h *Hub) Attach(conn *websocket.Conn, actor *user.Actor) {
	client := NewClient(h, conn, actor)
	h.Register <- client
	go client.WritePump()
	go client.ReadPump()
}

// Stats is a point-in-time view of connected sockets.
type Stats struct {
	Connections int `json:"connections"`
	Users       int `json:"users"`
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{Connections: h.totalClients(), Users: len(h.clients)}
}

// IsUserConnected checks if a user has any active connections
func (h *Hub) IsUserConnected(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ========== Lead events ==========

func (h *Hub) CustomerAssigned(agentID int64, c *customer.Customer) {
	h.publish([]int64{agentID}, wstypes.NewMessage(wstypes.EventTypeCustomerAssigned, wstypes.AssignmentData{
		CustomerID:   c.ID,
		CustomerName: c.CustomerName,
		AgentID:      agentID,
	}))
}

func (h *Hub) CustomerUnassigned(agentID int64, c *customer.Customer) {
	h.publish([]int64{agentID}, wstypes.NewMessage(wstypes.EventTypeCustomerUnassigned, wstypes.AssignmentData{
		CustomerID: c.ID,
		AgentID:    agentID,
	}))
}

func (h *Hub) ImportCompleted(userID int64, result *customer.ImportResult) {
	h.publish([]int64{userID}, wstypes.NewMessage(wstypes.EventTypeImportCompleted, result))
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, id)
	}
}
