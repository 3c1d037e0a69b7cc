package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubAuth map[string]*user.Actor

func (s stubAuth) Authenticate(ctx context.Context, token string) (*user.Actor, error) {
	if a, ok := s[token]; ok {
		return a, nil
	}
	return nil, errors.New("expired")
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(stubAuth{
		"admin-token": {ID: 1, Role: user.RoleAdmin},
		"agent-token": {ID: 2, Role: user.RoleAgent},
	})

	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/me", m.Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": MustGetActor(c).ID})
	})
	r.GET("/admin", append(m.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})...)
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func do(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthFailuresShareOneBody(t *testing.T) {
	r := newRouter()

	headers := []string{"", "Bearer", "Basic abc", "Bearer expired-token", "bearer nope"}
	var first string
	for _, h := range headers {
		w := do(r, "/me", h)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", h, w.Code)
		}

		var body response.Response
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Message != response.MsgUnauthenticated {
			t.Errorf("header %q: message = %q", h, body.Message)
		}
		if first == "" {
			first = w.Body.String()
		} else if w.Body.String() != first {
			t.Errorf("header %q: body %s differs from %s", h, w.Body.String(), first)
		}
	}
}

func TestAuthStoresActor(t *testing.T) {
	w := do(newRouter(), "/me", "Bearer agent-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"id":2}` {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAdminOnly(t *testing.T) {
	r := newRouter()

	if w := do(r, "/admin", "Bearer agent-token"); w.Code != http.StatusForbidden {
		t.Errorf("agent: status = %d, want 403", w.Code)
	}
	if w := do(r, "/admin", "Bearer admin-token"); w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", w.Code)
	}
	if w := do(r, "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	w := do(newRouter(), "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestExtractBearer(t *testing.T) {
	tests := map[string]string{
		"Bearer abc": "abc",
		"bearer abc": "abc",
		"Bearer":     "",
		"Token abc":  "",
		"Bearer a b": "",
		"":           "",
	}
	for in, want := range tests {
		if got := ExtractBearer(in); got != want {
			t.Errorf("ExtractBearer(%q) = %q, want %q", in, got, want)
		}
	}
}
