package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"
	wstypes "leaddesk-service/internal/domain/websocket"

	"go.uber.org/zap"
)

type stubAuth struct {
	actor *user.Actor
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (*user.Actor, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.actor, nil
}

type echoHandler struct{}

func (echoHandler) Events() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeDashboardGet}
}

func (echoHandler) Handle(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeDashboard, map[string]int64{"userId": client.Actor().ID}))
	return nil
}

func newTestClient(h *Hub, actor *user.Actor) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:    h,
		send:   make(chan []byte, 16),
		actor:  actor,
		ctx:    ctx,
		cancel: cancel,
	}
}

func readMessage(t *testing.T, c *Client) *wstypes.WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		msg, err := wstypes.ParseMessage(data)
		if err != nil {
			t.Fatalf("ParseMessage: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func runHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(stubAuth{actor: &user.Actor{ID: 1, Role: user.RoleAdmin}}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestHubDeliversToAssignedAgentOnly(t *testing.T) {
	h := runHub(t)

	alice := newTestClient(h, &user.Actor{ID: 7, Role: user.RoleAgent})
	bob := newTestClient(h, &user.Actor{ID: 8, Role: user.RoleAgent})
	h.Register <- alice
	h.Register <- bob

	if got := readMessage(t, alice); got.Type != wstypes.EventTypeConnected {
		t.Fatalf("first message = %q, want connected", got.Type)
	}
	readMessage(t, bob)

	h.CustomerAssigned(7, &customer.Customer{ID: 42, CustomerName: "Ravi"})

	msg := readMessage(t, alice)
	if msg.Type != wstypes.EventTypeCustomerAssigned {
		t.Fatalf("type = %q, want customer:assigned", msg.Type)
	}
	raw, _ := json.Marshal(msg.Data)
	var data wstypes.AssignmentData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.CustomerID != 42 || data.AgentID != 7 || data.CustomerName != "Ravi" {
		t.Errorf("data = %+v", data)
	}
	expectSilence(t, bob)
}

func TestHubUnregisterClosesClient(t *testing.T) {
	h := runHub(t)

	c := newTestClient(h, &user.Actor{ID: 3, Role: user.RoleAgent})
	h.Register <- c
	readMessage(t, c)

	h.unregister <- c

	deadline := time.Now().Add(time.Second)
	for h.IsUserConnected(3) {
		if time.Now().After(deadline) {
			t.Fatal("client still registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Sending to or closing a closed client is a no-op.
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypePing, nil))
	c.Close()
}

func TestClientMessageRouting(t *testing.T) {
	h := NewHub(stubAuth{}, zap.NewNop())
	h.RegisterHandler(echoHandler{})
	c := newTestClient(h, &user.Actor{ID: 9, Role: user.RoleAgent})

	c.handleMessage([]byte(`{"type":"ping"}`))
	if got := readMessage(t, c); got.Type != wstypes.EventTypePong {
		t.Errorf("ping answered with %q", got.Type)
	}

	c.handleMessage([]byte(`{"type":"dashboard:get"}`))
	if got := readMessage(t, c); got.Type != wstypes.EventTypeDashboard {
		t.Errorf("dashboard:get answered with %q", got.Type)
	}

	c.handleMessage([]byte(`{"type":"nope"}`))
	if got := readMessage(t, c); got.Type != wstypes.EventTypeError {
		t.Errorf("unknown event answered with %q", got.Type)
	}

	c.handleMessage([]byte(`not json`))
	if got := readMessage(t, c); got.Type != wstypes.EventTypeError {
		t.Errorf("garbage answered with %q", got.Type)
	}
}

func TestAuthenticateClient(t *testing.T) {
	h := NewHub(stubAuth{actor: &user.Actor{ID: 5}}, zap.NewNop())

	actor, err := h.AuthenticateClient(context.Background(), "good")
	if err != nil || actor.ID != 5 {
		t.Fatalf("AuthenticateClient(good) = %v, %v", actor, err)
	}
	if _, err := h.AuthenticateClient(context.Background(), "bad"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}
