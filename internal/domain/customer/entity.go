// internal/domain/customer/entity.go
package customer

import "time"

// AadhaarFiles holds the front and back scans of the Aadhaar card.
type AadhaarFiles struct {
	FrontURL *string `json:"frontUrl,omitempty"`
	BackURL  *string `json:"backUrl,omitempty"`
}

// Customer is a sales lead, optionally assigned to one agent.
type Customer struct {
	ID            int64    `json:"id" db:"id"`
	CustomerName  string   `json:"customerName" db:"customer_name"`
	MobileNumbers []string `json:"mobileNumbers" db:"mobile_numbers"`
	Emails        []string `json:"emails" db:"emails"`

	CreditScore *int        `json:"creditScore,omitempty" db:"credit_score"`
	Address     *string     `json:"address,omitempty" db:"address"`
	PinCode     *string     `json:"pinCode,omitempty" db:"pin_code"`
	Gender      *Gender     `json:"gender,omitempty" db:"gender"`
	Occupation  *Occupation `json:"occupation,omitempty" db:"occupation"`
	Income      *float64    `json:"income,omitempty" db:"income"`
	DOB         *time.Time  `json:"dob,omitempty" db:"dob"`

	// Encrypted at rest; the service decrypts on read.
	AadhaarNumber *string `json:"aadhaarNumber,omitempty" db:"aadhaar_number"`
	PanNumber     *string `json:"panNumber,omitempty" db:"pan_number"`

	AadhaarFiles     AadhaarFiles `json:"aadhaarFiles"`
	PanFile          *string      `json:"panFile,omitempty" db:"pan_file_url"`
	Selfie           *string      `json:"selfie,omitempty" db:"selfie_url"`
	IncomeProofFiles []string     `json:"incomeProofFiles" db:"income_proof_files"`

	AssignedAgentID   *int64  `json:"assignedAgentId,omitempty" db:"assigned_agent_id"`
	AssignedAgentName *string `json:"assignedAgentName,omitempty" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAssignedTo reports whether agentID currently holds the lead.
func (c *Customer) IsAssignedTo(agentID int64) bool {
	return c.AssignedAgentID != nil && *c.AssignedAgentID == agentID
}

// ImportResult summarises one bulk upload.
type ImportResult struct {
	TotalRows      int   `json:"totalRows"`
	Inserted       int   `json:"inserted"`
	Skipped        int   `json:"skipped"`
	Failed         int   `json:"failed"`
	TotalCustomers int64 `json:"totalCustomers"`
}
