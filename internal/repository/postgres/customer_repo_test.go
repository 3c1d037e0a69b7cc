package postgres

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"leaddesk-service/internal/domain/customer"

	"github.com/jackc/pgx/v5/pgtype"
)

// binaryRow feeds values through pgx's binary wire codecs, the format pgx
// requests for every column type used by customers.
type binaryRow struct {
	m      *pgtype.Map
	oids   []uint32
	values []any
}

func (r binaryRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(r.values))
	}
	for i := range dest {
		buf, err := r.m.Encode(r.oids[i], pgtype.BinaryFormatCode, r.values[i], make([]byte, 0, 16))
		if err != nil {
			return fmt.Errorf("encode column %d: %w", i, err)
		}
		if err := r.m.Scan(r.oids[i], pgtype.BinaryFormatCode, buf, dest[i]); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

// Column types of customerSelect, in order.
var customerSelectOIDs = []uint32{
	pgtype.Int8OID, pgtype.TextOID, pgtype.TextArrayOID, pgtype.TextArrayOID, pgtype.Int4OID,
	pgtype.TextOID, pgtype.TextOID, pgtype.TextOID, pgtype.TextOID, pgtype.Float8OID, pgtype.DateOID,
	pgtype.TextOID, pgtype.TextOID, pgtype.TextOID, pgtype.TextOID,
	pgtype.TextOID, pgtype.TextOID, pgtype.TextArrayOID, pgtype.Int8OID,
	pgtype.TimestamptzOID, pgtype.TimestamptzOID, pgtype.TextOID,
}

// Column types of copyColumns, in order.
var copyColumnOIDs = []uint32{
	pgtype.TextOID, pgtype.TextArrayOID, pgtype.TextArrayOID, pgtype.Int4OID, pgtype.TextOID, pgtype.TextOID,
	pgtype.TextOID, pgtype.TextOID, pgtype.Float8OID, pgtype.DateOID, pgtype.TextOID, pgtype.TextOID,
	pgtype.TextArrayOID, pgtype.Int8OID,
}

func TestScanCustomerFullRow(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	row := binaryRow{m: pgtype.NewMap(), oids: customerSelectOIDs, values: []any{
		int64(7), "Ravi Kumar", []string{"9000000001", "9000000002"}, []string{"ravi@x.io"}, int32(720),
		"12 MG Road", "560001", "male", "salary", 55000.5, dob,
		"enc-aadhaar", "enc-pan", "https://f/front.jpg", "https://f/back.jpg",
		"https://f/pan.jpg", "https://f/selfie.jpg", []string{"https://f/slip1.pdf", "https://f/slip2.pdf"}, int64(3),
		created, created, "Asha",
	}}

	c, err := scanCustomer(row)
	if err != nil {
		t.Fatalf("scanCustomer: %v", err)
	}

	if c.ID != 7 || c.CustomerName != "Ravi Kumar" {
		t.Errorf("id/name = %d %q", c.ID, c.CustomerName)
	}
	if !reflect.DeepEqual(c.MobileNumbers, []string{"9000000001", "9000000002"}) {
		t.Errorf("MobileNumbers = %v", c.MobileNumbers)
	}
	if !reflect.DeepEqual(c.Emails, []string{"ravi@x.io"}) {
		t.Errorf("Emails = %v", c.Emails)
	}
	if !reflect.DeepEqual(c.IncomeProofFiles, []string{"https://f/slip1.pdf", "https://f/slip2.pdf"}) {
		t.Errorf("IncomeProofFiles = %v", c.IncomeProofFiles)
	}
	if c.CreditScore == nil || *c.CreditScore != 720 {
		t.Errorf("CreditScore = %v", c.CreditScore)
	}
	if c.Gender == nil || *c.Gender != customer.GenderMale {
		t.Errorf("Gender = %v", c.Gender)
	}
	if c.Occupation == nil || *c.Occupation != customer.OccupationSalary {
		t.Errorf("Occupation = %v", c.Occupation)
	}
	if c.DOB == nil || !c.DOB.Equal(dob) {
		t.Errorf("DOB = %v", c.DOB)
	}
	if c.AadhaarFiles.BackURL == nil || *c.AadhaarFiles.BackURL != "https://f/back.jpg" {
		t.Errorf("AadhaarFiles = %+v", c.AadhaarFiles)
	}
	if !c.IsAssignedTo(3) || c.AssignedAgentName == nil || *c.AssignedAgentName != "Asha" {
		t.Errorf("assignment = %v %v", c.AssignedAgentID, c.AssignedAgentName)
	}
	if !c.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v", c.CreatedAt)
	}
}

func TestScanCustomerSparseRow(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	row := binaryRow{m: pgtype.NewMap(), oids: customerSelectOIDs, values: []any{
		int64(8), "Meena", []string{"9000000003"}, []string{}, nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, []string{}, nil,
		now, now, nil,
	}}

	c, err := scanCustomer(row)
	if err != nil {
		t.Fatalf("scanCustomer: %v", err)
	}
	if len(c.Emails) != 0 || len(c.IncomeProofFiles) != 0 {
		t.Errorf("empty arrays scanned as %v / %v", c.Emails, c.IncomeProofFiles)
	}
	if c.CreditScore != nil || c.Gender != nil || c.DOB != nil || c.AssignedAgentID != nil || c.AssignedAgentName != nil {
		t.Errorf("NULL columns not left nil: %+v", c)
	}
}

func TestCopyRowEncodesInBinary(t *testing.T) {
	m := pgtype.NewMap()
	score := 650
	gender := customer.GenderFemale
	occ := customer.OccupationBusiness
	income := 120000.0
	dob := time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC)
	agent := int64(4)

	tests := []struct {
		name string
		c    customer.Customer
	}{
		{"full", customer.Customer{
			CustomerName: "Full", MobileNumbers: []string{"1", "2"}, Emails: []string{"a@x.io"},
			CreditScore: &score, Gender: &gender, Occupation: &occ, Income: &income, DOB: &dob,
			IncomeProofFiles: []string{"u"}, AssignedAgentID: &agent,
		}},
		{"nil slices", customer.Customer{CustomerName: "Bare"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := copyRow(&tt.c)
			if len(values) != len(copyColumns) || len(values) != len(copyColumnOIDs) {
				t.Fatalf("%d values for %d columns", len(values), len(copyColumns))
			}
			for i, v := range values {
				buf, err := m.Encode(copyColumnOIDs[i], pgtype.BinaryFormatCode, v, make([]byte, 0, 16))
				if err != nil {
					t.Fatalf("%s: %v", copyColumns[i], err)
				}
				if copyColumnOIDs[i] == pgtype.TextArrayOID && buf == nil {
					t.Errorf("%s encoded as NULL into a NOT NULL column", copyColumns[i])
				}
			}
		})
	}
}
