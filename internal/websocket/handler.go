// internal/websocket/handler.go
package websocket

import (
	"context"
	"sync"

	wstypes "leaddesk-service/internal/domain/websocket"
)

// EventHandler answers client-initiated socket events.
type EventHandler interface {
	Events() []wstypes.EventType
	Handle(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
}

// eventRouter maps an inbound event type to the handler that owns it.
// The last handler registered for a type wins.
type eventRouter struct {
	mu     sync.RWMutex
	routes map[wstypes.EventType]EventHandler
}

func newEventRouter(builtin ...EventHandler) *eventRouter {
	r := &eventRouter{routes: map[wstypes.EventType]EventHandler{}}
	for _, h := range builtin {
		r.add(h)
	}
	return r
}

func (r *eventRouter) add(h EventHandler) []wstypes.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	var replaced []wstypes.EventType
	for _, t := range h.Events() {
		if _, dup := r.routes[t]; dup {
			replaced = append(replaced, t)
		}
		r.routes[t] = h
	}
	return replaced
}

func (r *eventRouter) lookup(t wstypes.EventType) EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.routes[t]
}

// pingHandler answers application-level pings for clients that cannot send control frames.
type pingHandler struct{}

func (pingHandler) Events() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypePing}
}

func (pingHandler) Handle(_ context.Context, client *Client, msg *wstypes.WSMessage) error {
	client.SendMessage(msg.Reply(wstypes.EventTypePong, nil))
	return nil
}
