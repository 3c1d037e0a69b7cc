package callhistory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leaddesk-service/internal/domain/callhistory"
	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/middleware"
	xerrors "leaddesk-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

type stubService struct {
	filters *callhistory.ListFilters
}

func (s *stubService) CreateCallHistory(ctx context.Context, actor *user.Actor, req *callhistory.CreateCallHistoryRequest) (*callhistory.CallHistory, error) {
	return &callhistory.CallHistory{ID: 1, CustomerID: req.CustomerID, AgentID: actor.ID}, nil
}

func (s *stubService) ListCallHistories(ctx context.Context, actor *user.Actor, f *callhistory.ListFilters) ([]callhistory.View, error) {
	s.filters = f
	return []callhistory.View{}, nil
}

func (s *stubService) ListByAgent(ctx context.Context, actor *user.Actor, agentID int64) ([]callhistory.View, error) {
	if !actor.IsAdmin() && actor.ID != agentID {
		return nil, xerrors.ErrForbidden
	}
	return []callhistory.View{}, nil
}

func (s *stubService) Dashboard(ctx context.Context, actor *user.Actor) (*callhistory.Dashboard, error) {
	return &callhistory.Dashboard{Yesterday: []callhistory.View{}, Today: []callhistory.View{}, Next: []callhistory.View{}}, nil
}

type stubAuth map[string]*user.Actor

func (s stubAuth) Authenticate(ctx context.Context, token string) (*user.Actor, error) {
	if a, ok := s[token]; ok {
		return a, nil
	}
	return nil, xerrors.ErrUnauthorized
}

func newRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCallHistoryHandler(svc)
	mw := middleware.NewAuthMiddleware(stubAuth{"agent": {ID: 2, Role: user.RoleAgent}})

	r := gin.New()
	g := r.Group("/api/call-histories", mw.Auth())
	g.POST("", h.CreateCallHistory)
	g.GET("", h.ListCallHistories)
	g.GET("/all", h.Dashboard)
	g.GET("/agent/:agentId", h.ListByAgent)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer agent")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListByAgent(t *testing.T) {
	r := newRouter(&stubService{})

	if w := get(r, "/api/call-histories/agent/3"); w.Code != http.StatusForbidden {
		t.Errorf("other agent: status = %d, want 403", w.Code)
	}
	if w := get(r, "/api/call-histories/agent/2"); w.Code != http.StatusOK {
		t.Errorf("self: status = %d, want 200", w.Code)
	}
	if w := get(r, "/api/call-histories/agent/x"); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", w.Code)
	}
}

func TestListCallHistoriesBindsCustomerFilter(t *testing.T) {
	svc := &stubService{}
	if w := get(newRouter(svc), "/api/call-histories?customerId=12"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.filters == nil || svc.filters.CustomerID == nil || *svc.filters.CustomerID != 12 {
		t.Errorf("filters = %+v", svc.filters)
	}
}

func TestDashboardShape(t *testing.T) {
	w := get(newRouter(&stubService{}), "/api/call-histories/all")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, key := range []string{`"yesterday":[]`, `"today":[]`, `"next":[]`} {
		if !strings.Contains(w.Body.String(), key) {
			t.Errorf("body %s missing %s", w.Body.String(), key)
		}
	}
}

func TestCreateCallHistoryRequiresFlags(t *testing.T) {
	r := newRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/call-histories", strings.NewReader(`{"customerId":4}`))
	req.Header.Set("Authorization", "Bearer agent")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
