package customer

import (
	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"
)

// ErrAgentNotFound reports an assignment to a user id that does not exist.
var ErrAgentNotFound = xerrors.NotFound("Agent")

// Authorize is the ownership gate: admins pass, agents pass only for leads
// assigned to them. A missing customer is reported before any role check.
func Authorize(actor *user.Actor, c *Customer) error {
	if c == nil {
		return xerrors.NotFound("Customer")
	}
	if actor == nil {
		return xerrors.ErrUnauthorized
	}
	if actor.IsAdmin() || c.IsAssignedTo(actor.ID) {
		return nil
	}
	return xerrors.ErrForbidden
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Paginate normalises 1-based page and limit and returns the row offset.
func Paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
