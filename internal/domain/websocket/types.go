// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType names a frame on the lead socket.
type EventType string

// Client -> server.
const (
	EventTypePing         EventType = "ping"
	EventTypeDashboardGet EventType = "dashboard:get"
)

// Server -> client.
const (
	EventTypePong               EventType = "pong"
	EventTypeConnected          EventType = "connected"
	EventTypeError              EventType = "error"
	EventTypeDashboard          EventType = "dashboard"
	EventTypeCustomerAssigned   EventType = "customer:assigned"
	EventTypeCustomerUnassigned EventType = "customer:unassigned"
	EventTypeImportCompleted    EventType = "import:completed"
)

// WSMessage is one JSON frame. Replies reuse the request ID so clients can correlate them.
type WSMessage struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AssignmentData is sent to the agent gaining or losing a lead.
type AssignmentData struct {
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName,omitempty"`
	AgentID      int64  `json:"agentId"`
}

func NewMessage(t EventType, data any) *WSMessage {
	return &WSMessage{Type: t, Data: data, Timestamp: time.Now().UTC(), ID: ulid.Make().String()}
}

// Reply builds a response frame carrying m's ID.
func (m *WSMessage) Reply(t EventType, data any) *WSMessage {
	out := NewMessage(t, data)
	if m.ID != "" {
		out.ID = m.ID
	}
	return out
}

func NewError(code, message, details string) *WSMessage {
	return NewMessage(EventTypeError, ErrorData{Code: code, Message: message, Details: details})
}

func (m *WSMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

// ParseMessage decodes an inbound frame. A frame without a type is rejected.
func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, errMissingType
	}
	return &msg, nil
}
