// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"time"

	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/notification"
	"leaddesk-service/internal/domain/user"
	"leaddesk-service/internal/repository/postgres"

	"go.uber.org/zap"
)

const storeTimeout = 5 * time.Second

// Store persists inbox entries.
type Store interface {
	Create(ctx context.Context, n *notification.Notification) error
	List(ctx context.Context, q postgres.NotificationQuery) ([]notification.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
}

// Pusher delivers live events to connected clients.
type Pusher interface {
	CustomerAssigned(agentID int64, c *customer.Customer)
	CustomerUnassigned(agentID int64, c *customer.Customer)
	ImportCompleted(userID int64, result *customer.ImportResult)
}

// NotificationService records lead events in the user's inbox, then pushes
// them over the websocket hub.
type NotificationService struct {
	repo   Store
	pusher Pusher
	logger *zap.Logger
}

func NewNotificationService(repo Store, pusher Pusher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		pusher: pusher,
		logger: logger,
	}
}

// ========== Events ==========

func (s *NotificationService) CustomerAssigned(agentID int64, c *customer.Customer) {
	s.record(&notification.Notification{
		UserID:  agentID,
		Title:   "New lead assigned",
		Message: fmt.Sprintf("%s has been assigned to you.", c.CustomerName),
		Type:    notification.TypeAssigned,
		Metadata: map[string]interface{}{
			"customerId": c.ID,
		},
	})
	if s.pusher != nil {
		s.pusher.CustomerAssigned(agentID, c)
	}
}

func (s *NotificationService) CustomerUnassigned(agentID int64, c *customer.Customer) {
	s.record(&notification.Notification{
		UserID:  agentID,
		Title:   "Lead unassigned",
		Message: fmt.Sprintf("%s is no longer assigned to you.", c.CustomerName),
		Type:    notification.TypeUnassigned,
		Metadata: map[string]interface{}{
			"customerId": c.ID,
		},
	})
	if s.pusher != nil {
		s.pusher.CustomerUnassigned(agentID, c)
	}
}

func (s *NotificationService) ImportCompleted(userID int64, result *customer.ImportResult) {
	s.record(&notification.Notification{
		UserID:  userID,
		Title:   "Import completed",
		Message: fmt.Sprintf("%d of %d rows imported, %d skipped, %d failed.", result.Inserted, result.TotalRows, result.Skipped, result.Failed),
		Type:    notification.TypeImport,
		Metadata: map[string]interface{}{
			"totalRows":      result.TotalRows,
			"inserted":       result.Inserted,
			"skipped":        result.Skipped,
			"failed":         result.Failed,
			"totalCustomers": result.TotalCustomers,
		},
	})
	if s.pusher != nil {
		s.pusher.ImportCompleted(userID, result)
	}
}

// record stores n. A failure is logged; the live event still goes out.
func (s *NotificationService) record(n *notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to store notification",
			zap.Int64("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err),
		)
	}
}

// ========== Inbox ==========

// List returns one page of the actor's own notifications.
func (s *NotificationService) List(ctx context.Context, actor *user.Actor, filters *notification.ListFilters) (*notification.ListResponse, error) {
	page, limit, offset := customer.Paginate(filters.Page, filters.Limit)

	items, total, err := s.repo.List(ctx, postgres.NotificationQuery{
		UserID: actor.ID,
		IsRead: filters.IsRead,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &notification.ListResponse{
		Notifications: items,
		Unread:        unread,
		Total:         total,
		Page:          page,
		Limit:         limit,
		TotalPages:    customer.TotalPages(total, limit),
	}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, actor *user.Actor, id int64) error {
	return s.repo.MarkAsRead(ctx, id, actor.ID)
}

// MarkAllAsRead returns how many notifications changed.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor *user.Actor) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, actor.ID)
}
