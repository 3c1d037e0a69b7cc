package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leaddesk-service/internal/domain/user"
	ws "leaddesk-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type stubHub struct {
	gotToken string
	attached chan *user.Actor
}

func newStubHub() *stubHub {
	return &stubHub{attached: make(chan *user.Actor, 1)}
}

func (s *stubHub) AuthenticateClient(ctx context.Context, token string) (*user.Actor, error) {
	s.gotToken = token
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &user.Actor{ID: 4, Role: user.RoleAgent}, nil
}

func (s *stubHub) Attach(conn *websocket.Conn, actor *user.Actor) {
	s.attached <- actor
	conn.Close()
}

func (s *stubHub) Stats() ws.Stats { return ws.Stats{Connections: 3, Users: 2} }

func newRouter(hub Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebSocketHandler(hub, zap.NewNop())
	r := gin.New()
	r.GET("/ws", h.HandleConnection)
	r.GET("/stats", h.GetStats)
	return r
}

func TestHandleConnectionRejectsBadTokens(t *testing.T) {
	for _, target := range []string{"/ws", "/ws?token=bad"} {
		hub := newStubHub()
		w := httptest.NewRecorder()
		newRouter(hub).ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", target, w.Code)
		}
		if len(hub.attached) != 0 {
			t.Errorf("%s: client attached", target)
		}
	}
}

func TestHandleConnectionUpgrades(t *testing.T) {
	hub := newStubHub()
	srv := httptest.NewServer(newRouter(hub))
	defer srv.Close()

	header := http.Header{"Authorization": {"Bearer good"}}
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+srv.URL[len("http"):]+"/ws", header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	select {
	case actor := <-hub.attached:
		if actor.ID != 4 {
			t.Errorf("attached actor = %+v", actor)
		}
	case <-time.After(time.Second):
		t.Fatal("client was not attached")
	}
	if hub.gotToken != "good" {
		t.Errorf("token = %q, want from bearer header", hub.gotToken)
	}
}

func TestGetStats(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(newStubHub()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var body struct {
		Data struct {
			Stats ws.Stats `json:"stats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Stats.Connections != 3 || body.Data.Stats.Users != 2 {
		t.Errorf("stats = %+v", body.Data.Stats)
	}
}
