// internal/service/callhistory/callhistory.go
package callhistory

import (
	"context"
	"strings"
	"time"

	"leaddesk-service/internal/domain/callhistory"
	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"
	"leaddesk-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// Store persists call histories.
type Store interface {
	Create(ctx context.Context, h *callhistory.CallHistory) error
	List(ctx context.Context, q postgres.CallQuery) ([]callhistory.View, error)
}

// CustomerFinder loads the lead a call refers to.
type CustomerFinder interface {
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
}

type CallHistoryService struct {
	repo      Store
	customers CustomerFinder
	logger    *zap.Logger
	now       func() time.Time
}

func NewCallHistoryService(repo Store, customers CustomerFinder, logger *zap.Logger) *CallHistoryService {
	return &CallHistoryService{
		repo:      repo,
		customers: customers,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateCallHistory logs a call by the actor against a lead they may access.
func (s *CallHistoryService) CreateCallHistory(ctx context.Context, actor *user.Actor, req *callhistory.CreateCallHistoryRequest) (*callhistory.CallHistory, error) {
	if err := s.authorizeCustomer(ctx, actor, req.CustomerID); err != nil {
		return nil, err
	}

	h := &callhistory.CallHistory{
		CustomerID:       req.CustomerID,
		AgentID:          actor.ID,
		Interested:       req.Interested,
		Attended:         req.Attended,
		Disposition:      trimmed(req.Disposition),
		NextCallDateTime: req.NextCallDateTime,
		Notes:            trimmed(req.Notes),
		CallTime:         s.now(),
	}
	if req.CallTime != nil {
		h.CallTime = *req.CallTime
	}

	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("failed to create call history",
			zap.Int64("customer_id", req.CustomerID),
			zap.Int64("agent_id", actor.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("call logged",
		zap.Int64("call_history_id", h.ID),
		zap.Int64("customer_id", h.CustomerID),
		zap.Int64("agent_id", h.AgentID),
	)
	return h, nil
}

// ListCallHistories returns one lead's calls, or the actor's own calls when
// no lead is named. Admins without a filter also get only their own.
func (s *CallHistoryService) ListCallHistories(ctx context.Context, actor *user.Actor, filters *callhistory.ListFilters) ([]callhistory.View, error) {
	if filters != nil && filters.CustomerID != nil {
		if err := s.authorizeCustomer(ctx, actor, *filters.CustomerID); err != nil {
			return nil, err
		}
		return s.repo.List(ctx, postgres.CallQuery{CustomerID: filters.CustomerID})
	}

	agentID := actor.ID
	return s.repo.List(ctx, postgres.CallQuery{AgentID: &agentID})
}

// ListByAgent returns every call made by agentID. Admins or the agent only.
func (s *CallHistoryService) ListByAgent(ctx context.Context, actor *user.Actor, agentID int64) ([]callhistory.View, error) {
	if !actor.IsAdmin() && actor.ID != agentID {
		return nil, xerrors.ErrForbidden
	}
	return s.repo.List(ctx, postgres.CallQuery{AgentID: &agentID})
}

// Dashboard buckets scheduled follow-ups into yesterday, today and later.
// Admins see everyone's, agents their own.
func (s *CallHistoryService) Dashboard(ctx context.Context, actor *user.Actor) (*callhistory.Dashboard, error) {
	q := postgres.CallQuery{ScheduledOnly: true}
	if !actor.IsAdmin() {
		agentID := actor.ID
		q.AgentID = &agentID
	}

	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	d := callhistory.BucketByNextCall(items, s.now())
	return &d, nil
}

func (s *CallHistoryService) authorizeCustomer(ctx context.Context, actor *user.Actor, customerID int64) error {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	return customer.Authorize(actor, c)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
