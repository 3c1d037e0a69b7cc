// internal/service/importer/parse.go
package importer

import (
	"strings"

	"leaddesk-service/internal/domain/customer"
)

// Column positions of the import layout.
const (
	colCustomerName = iota
	colMobileNumbers
	colEmails
	colCreditScore
	colAddress
	colPinCode
	colGender
	colOccupation
	colIncome
	colDOB
	colAadhaarNumber
	colPanNumber
	colAssignedAgentID
	colIncomeProofFiles
)

// Issue is a value dropped from an otherwise imported row.
type Issue struct {
	Field string
	Value string
}

// ParsedRow is one importable row plus the plaintext identity numbers the
// importer still has to seal.
type ParsedRow struct {
	Customer customer.Customer
	Aadhaar  string
	Pan      string
	Issues   []Issue
}

// IsHeader reports whether the row is the column header.
func IsHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff")), "customerName")
}

// ParseRow coerces one row. ok is false when the row must be skipped: no name
// or no mobile number. Unparseable optional values become absent and invalid
// enum or agent values are reported as issues.
func ParseRow(row []string) (ParsedRow, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var p ParsedRow
	c := &p.Customer

	c.CustomerName = cell(colCustomerName)
	c.MobileNumbers = customer.SplitList(cell(colMobileNumbers))
	if c.CustomerName == "" || len(c.MobileNumbers) == 0 {
		return p, false
	}

	c.Emails = customer.SplitList(cell(colEmails))
	c.IncomeProofFiles = customer.SplitList(cell(colIncomeProofFiles))
	c.CreditScore = customer.ParseInt(cell(colCreditScore))
	c.Income = customer.ParseFloat(cell(colIncome))
	c.Address = optional(cell(colAddress))
	c.PinCode = optional(cell(colPinCode))
	c.DOB, _ = customer.ParseDate(cell(colDOB))

	if v := cell(colGender); v != "" {
		g := customer.Gender(strings.ToLower(v))
		if g.Valid() {
			c.Gender = &g
		} else {
			p.Issues = append(p.Issues, Issue{Field: "gender", Value: v})
		}
	}

	if v := cell(colOccupation); v != "" {
		o := customer.Occupation(strings.ToLower(v))
		if o.Valid() {
			c.Occupation = &o
		} else {
			p.Issues = append(p.Issues, Issue{Field: "occupation", Value: v})
		}
	}

	if v := cell(colAssignedAgentID); v != "" {
		if id, ok := customer.ParseAgentRef(v); ok {
			c.AssignedAgentID = id
		} else {
			p.Issues = append(p.Issues, Issue{Field: "assignedAgentId", Value: v})
		}
	}

	p.Aadhaar = cell(colAadhaarNumber)
	p.Pan = strings.ToUpper(cell(colPanNumber))

	return p, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
