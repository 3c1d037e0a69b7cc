// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	"leaddesk-service/internal/domain/user"
	wstypes "leaddesk-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Client is one authenticated socket. A user may hold several.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	actor *user.Actor

	mu     sync.Mutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, actor *user.Actor) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		actor:  actor,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) Actor() *user.Actor { return c.actor }

// ReadPump reads frames until the peer goes away, then unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.leave()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.Int64("user_id", c.actor.ID), zap.Error(err))
			}
			return
		}
		c.handleMessage(frame)
	}
}

// WritePump drains the send queue and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		var (
			kind    = websocket.TextMessage
			payload []byte
		)
		select {
		case frame, ok := <-c.send:
			if !ok {
				c.write(websocket.CloseMessage, nil)
				return
			}
			payload = frame
		case <-ticker.C:
			kind = websocket.PingMessage
		}
		if err := c.write(kind, payload); err != nil {
			return
		}
	}
}

func (c *Client) write(kind int, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, payload)
}

func (c *Client) handleMessage(frame []byte) {
	msg, err := wstypes.ParseMessage(frame)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", "")
		return
	}

	handled, err := c.hub.HandleClientMessage(c.ctx, c, msg)
	switch {
	case err != nil:
		c.hub.logger.Warn("websocket handler failed",
			zap.String("type", string(msg.Type)),
			zap.Int64("user_id", c.actor.ID),
			zap.Error(err),
		)
		c.SendError("handler_error", "Failed to process message", "")
	case !handled:
		c.SendError("unknown_event", "Unsupported event type", string(msg.Type))
	}
}

// SendMessage queues msg without blocking. A client whose queue is full is dropped.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("websocket client too slow, disconnecting", zap.Int64("user_id", c.actor.ID))
		go c.leave()
	}
}

func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewError(code, message, details))
}

// Close stops the client. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.send)
}

// leave asks the hub to drop the client unless it is already closed.
func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.ctx.Done():
	}
}
