// internal/domain/customer/dto.go
package customer

type CreateCustomerRequest struct {
	CustomerName     string        `json:"customerName" binding:"required,max=255"`
	MobileNumbers    []string      `json:"mobileNumbers" binding:"dive,max=20"`
	Emails           []string      `json:"emails" binding:"dive,email"`
	CreditScore      *int          `json:"creditScore"`
	Address          *string       `json:"address"`
	PinCode          *string       `json:"pinCode" binding:"omitempty,max=12"`
	Gender           *string       `json:"gender" binding:"omitempty,oneof=male female other"`
	Occupation       *string       `json:"occupation" binding:"omitempty,oneof=salary non-salary business other"`
	Income           *float64      `json:"income"`
	DOB              *string       `json:"dob"`
	AadhaarNumber    *string       `json:"aadhaarNumber"`
	PanNumber        *string       `json:"panNumber"`
	AadhaarFiles     *AadhaarFiles `json:"aadhaarFiles"`
	PanFile          *string       `json:"panFile"`
	Selfie           *string       `json:"selfie"`
	IncomeProofFiles []string      `json:"incomeProofFiles"`
	AssignedAgentID  *int64        `json:"assignedAgentId" binding:"omitempty,gt=0"`
}

// UpdateCustomerRequest overwrites every field that is present. Assignment is
// changed only through the assign/unassign endpoints.
type UpdateCustomerRequest struct {
	CustomerName     *string       `json:"customerName" binding:"omitempty,min=1,max=255"`
	MobileNumbers    []string      `json:"mobileNumbers" binding:"omitempty,dive,max=20"`
	Emails           []string      `json:"emails" binding:"omitempty,dive,email"`
	CreditScore      *int          `json:"creditScore"`
	Address          *string       `json:"address"`
	PinCode          *string       `json:"pinCode" binding:"omitempty,max=12"`
	Gender           *string       `json:"gender" binding:"omitempty,oneof=male female other"`
	Occupation       *string       `json:"occupation" binding:"omitempty,oneof=salary non-salary business other"`
	Income           *float64      `json:"income"`
	DOB              *string       `json:"dob"`
	AadhaarNumber    *string       `json:"aadhaarNumber"`
	PanNumber        *string       `json:"panNumber"`
	AadhaarFiles     *AadhaarFiles `json:"aadhaarFiles"`
	PanFile          *string       `json:"panFile"`
	Selfie           *string       `json:"selfie"`
	IncomeProofFiles []string      `json:"incomeProofFiles"`

	// AttachedIncomeProofFiles are URLs of files uploaded with the request.
	// They are appended to the stored list.
	AttachedIncomeProofFiles []string `json:"-"`
}

type CustomerListFilters struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
	PinCode string `form:"pinCode"`
	AgentID *int64 `form:"agentId" binding:"omitempty,gt=0"`
}

type CustomerListResponse struct {
	Customers  []Customer `json:"customers"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

type AssignRequest struct {
	AgentID int64 `json:"agentId" binding:"required,gt=0"`
}
