// internal/domain/callhistory/entity.go
package callhistory

import "time"

// CallHistory is one logged call. Rows are append-only.
type CallHistory struct {
	ID               int64      `json:"id" db:"id"`
	CustomerID       int64      `json:"customerId" db:"customer_id"`
	AgentID          int64      `json:"agentId" db:"agent_id"`
	Interested       *bool      `json:"interested,omitempty" db:"interested"`
	CallTime         time.Time  `json:"callTime" db:"call_time"`
	Disposition      *string    `json:"disposition,omitempty" db:"disposition"`
	NextCallDateTime *time.Time `json:"nextCallDateTime,omitempty" db:"next_call_at"`
	Attended         *bool      `json:"attended,omitempty" db:"attended"`
	Notes            *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// View is a call joined with the names of its customer and agent.
type View struct {
	CallHistory
	CustomerName string `json:"customerName"`
	AgentName    string `json:"agentName"`
}

// Dashboard groups upcoming-call reminders by calendar day.
type Dashboard struct {
	Yesterday []View `json:"yesterday"`
	Today     []View `json:"today"`
	Next      []View `json:"next"`
}
