// internal/domain/notification/entity.go
package notification

import "time"

type NotificationType string

const (
	TypeAssigned   NotificationType = "customer_assigned"
	TypeUnassigned NotificationType = "customer_unassigned"
	TypeImport     NotificationType = "import_completed"
)

// Notification is an inbox entry kept for users who were offline when the
// matching websocket event went out.
type Notification struct {
	ID        int64                  `json:"id" db:"id"`
	UserID    int64                  `json:"userId" db:"user_id"`
	Title     string                 `json:"title" db:"title"`
	Message   string                 `json:"message" db:"message"`
	Type      NotificationType       `json:"type" db:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	IsRead    bool                   `json:"isRead" db:"is_read"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
	ReadAt    *time.Time             `json:"readAt,omitempty" db:"read_at"`
}

// DTOs

type ListFilters struct {
	IsRead *bool `form:"isRead"`
	Page   int   `form:"page" binding:"omitempty,min=1"`
	Limit  int   `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Unread        int64          `json:"unread"`
	Total         int64          `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	TotalPages    int            `json:"totalPages"`
}
