// internal/repository/postgres/call_history_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"leaddesk-service/internal/domain/callhistory"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CallQuery narrows a call history listing. Zero value lists everything.
type CallQuery struct {
	CustomerID    *int64
	AgentID       *int64
	ScheduledOnly bool
}

type CallHistoryRepository struct {
	db *pgxpool.Pool
}

func NewCallHistoryRepository(db *pgxpool.Pool) *CallHistoryRepository {
	return &CallHistoryRepository{db: db}
}

func (r *CallHistoryRepository) Create(ctx context.Context, h *callhistory.CallHistory) error {
	query := `
		INSERT INTO call_histories (
			customer_id, agent_id, interested, call_time, disposition,
			next_call_at, attended, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		h.CustomerID, h.AgentID, h.Interested, h.CallTime, h.Disposition,
		h.NextCallDateTime, h.Attended, h.Notes,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)

	if isForeignKeyViolation(err) {
		return fmt.Errorf("customer or agent missing: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to create call history: %w", err)
	}
	return nil
}

// List returns matching rows with customer and agent names, newest call first.
func (r *CallHistoryRepository) List(ctx context.Context, q CallQuery) ([]callhistory.View, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if q.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("h.customer_id = $%d", argPos))
		args = append(args, *q.CustomerID)
		argPos++
	}

	if q.AgentID != nil {
		conditions = append(conditions, fmt.Sprintf("h.agent_id = $%d", argPos))
		args = append(args, *q.AgentID)
		argPos++
	}

	if q.ScheduledOnly {
		conditions = append(conditions, "h.next_call_at IS NOT NULL")
	}

	query := fmt.Sprintf(`
		SELECT h.id, h.customer_id, h.agent_id, h.interested, h.call_time, h.disposition,
		       h.next_call_at, h.attended, h.notes, h.created_at, h.updated_at,
		       COALESCE(c.customer_name, ''), COALESCE(u.display_name, '')
		FROM call_histories h
		LEFT JOIN customers c ON c.id = h.customer_id
		LEFT JOIN users u ON u.id = h.agent_id
		WHERE %s
		ORDER BY h.call_time DESC, h.id DESC
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list call histories: %w", err)
	}
	defer rows.Close()

	views := []callhistory.View{}
	for rows.Next() {
		var v callhistory.View
		err := rows.Scan(
			&v.ID, &v.CustomerID, &v.AgentID, &v.Interested, &v.CallTime, &v.Disposition,
			&v.NextCallDateTime, &v.Attended, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
			&v.CustomerName, &v.AgentName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call history: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate call histories: %w", err)
	}

	return views, nil
}
