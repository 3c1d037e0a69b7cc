// internal/domain/callhistory/dto.go
package callhistory

import "time"

type CreateCallHistoryRequest struct {
	CustomerID       int64      `json:"customerId" binding:"required,gt=0"`
	Interested       *bool      `json:"interested" binding:"required"`
	Attended         *bool      `json:"attended" binding:"required"`
	Disposition      *string    `json:"disposition" binding:"omitempty,max=255"`
	NextCallDateTime *time.Time `json:"nextCallDateTime"`
	CallTime         *time.Time `json:"callTime"`
	Notes            *string    `json:"notes"`
}

type ListFilters struct {
	CustomerID *int64 `form:"customerId" binding:"omitempty,gt=0"`
}
