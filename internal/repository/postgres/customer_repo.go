// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leaddesk-service/internal/domain/customer"
	xerrors "leaddesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

const customerSelect = `
	SELECT c.id, c.customer_name, c.mobile_numbers, c.emails, c.credit_score,
	       c.address, c.pin_code, c.gender, c.occupation, c.income, c.dob,
	       c.aadhaar_number, c.pan_number, c.aadhaar_front_url, c.aadhaar_back_url,
	       c.pan_file_url, c.selfie_url, c.income_proof_files, c.assigned_agent_id,
	       c.created_at, c.updated_at, u.display_name
	FROM customers c
	LEFT JOIN users u ON u.id = c.assigned_agent_id
`

// copyColumns is the column order used by bulk inserts.
var copyColumns = []string{
	"customer_name", "mobile_numbers", "emails", "credit_score", "address", "pin_code",
	"gender", "occupation", "income", "dob", "aadhaar_number", "pan_number",
	"income_proof_files", "assigned_agent_id",
}

// ListQuery is the storage-level filter; the service resolves role rules before building it.
type ListQuery struct {
	AgentID *int64
	PinCode string
	Limit   int
	Offset  int
}

type CustomerRepository struct {
	db *DB
}

func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.CustomerName, &c.MobileNumbers, &c.Emails, &c.CreditScore,
		&c.Address, &c.PinCode, &c.Gender, &c.Occupation, &c.Income, &c.DOB,
		&c.AadhaarNumber, &c.PanNumber, &c.AadhaarFiles.FrontURL, &c.AadhaarFiles.BackURL,
		&c.PanFile, &c.Selfie, &c.IncomeProofFiles, &c.AssignedAgentID,
		&c.CreatedAt, &c.UpdatedAt, &c.AssignedAgentName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.NotFound("Customer")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return &c, nil
}

// Create inserts a customer including its assignment.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			customer_name, mobile_numbers, emails, credit_score, address, pin_code,
			gender, occupation, income, dob, aadhaar_number, pan_number,
			aadhaar_front_url, aadhaar_back_url, pan_file_url, selfie_url,
			income_proof_files, assigned_agent_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		c.CustomerName, nonNil(c.MobileNumbers), nonNil(c.Emails), c.CreditScore, c.Address, c.PinCode,
		c.Gender, c.Occupation, c.Income, c.DOB, c.AadhaarNumber, c.PanNumber,
		c.AadhaarFiles.FrontURL, c.AadhaarFiles.BackURL, c.PanFile, c.Selfie,
		nonNil(c.IncomeProofFiles), c.AssignedAgentID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isForeignKeyViolation(err) {
		return customer.ErrAgentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	query := customerSelect + ` WHERE c.id = $1`
	return scanCustomer(r.db.Pool().QueryRow(ctx, query, id))
}

// Update overwrites every column except the assignment.
func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET customer_name = $1, mobile_numbers = $2, emails = $3, credit_score = $4,
		    address = $5, pin_code = $6, gender = $7, occupation = $8, income = $9,
		    dob = $10, aadhaar_number = $11, pan_number = $12, aadhaar_front_url = $13,
		    aadhaar_back_url = $14, pan_file_url = $15, selfie_url = $16,
		    income_proof_files = $17, updated_at = now()
		WHERE id = $18
		RETURNING updated_at
	`

	err := r.db.Pool().QueryRow(ctx, query,
		c.CustomerName, nonNil(c.MobileNumbers), nonNil(c.Emails), c.CreditScore,
		c.Address, c.PinCode, c.Gender, c.Occupation, c.Income,
		c.DOB, c.AadhaarNumber, c.PanNumber, c.AadhaarFiles.FrontURL,
		c.AadhaarFiles.BackURL, c.PanFile, c.Selfie,
		nonNil(c.IncomeProofFiles), c.ID,
	).Scan(&c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.NotFound("Customer")
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// Delete removes the customer and its call history in one transaction.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM call_histories WHERE customer_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete call histories: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		if result.RowsAffected() == 0 {
			return xerrors.NotFound("Customer")
		}
		return nil
	})
}

// SetAssignment sets or clears (agentID == nil) the assigned agent.
func (r *CustomerRepository) SetAssignment(ctx context.Context, id int64, agentID *int64) (*customer.Customer, error) {
	query := `UPDATE customers SET assigned_agent_id = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.Pool().Exec(ctx, query, agentID, id)
	if isForeignKeyViolation(err) {
		return nil, customer.ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, xerrors.NotFound("Customer")
	}

	return r.FindByID(ctx, id)
}

// List returns one page, newest first, and the total matching count.
func (r *CustomerRepository) List(ctx context.Context, q ListQuery) ([]customer.Customer, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if q.AgentID != nil {
		conditions = append(conditions, fmt.Sprintf("c.assigned_agent_id = $%d", argPos))
		args = append(args, *q.AgentID)
		argPos++
	}

	if q.PinCode != "" {
		conditions = append(conditions, fmt.Sprintf("c.pin_code = $%d", argPos))
		args = append(args, q.PinCode)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM customers c WHERE %s", whereClause)
	if err := r.db.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $%d OFFSET $%d
	`, customerSelect, whereClause, argPos, argPos+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, total, nil
}

// CopyInsert bulk-loads a batch with COPY and returns the number of rows written.
func (r *CustomerRepository) CopyInsert(ctx context.Context, batch []customer.Customer) (int64, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	n, err := r.db.Pool().CopyFrom(ctx,
		pgx.Identifier{"customers"},
		copyColumns,
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			return copyRow(&batch[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy customers: %w", err)
	}
	return n, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, nil
}

// ExistingAgentIDs returns the subset of ids that belong to users with the agent role.
func (r *CustomerRepository) ExistingAgentIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.db.Pool().Query(ctx, `SELECT id FROM users WHERE role = 'agent' AND id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up agents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan agent id: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}

// copyRow lists c's values in copyColumns order.
func copyRow(c *customer.Customer) []any {
	return []any{
		c.CustomerName, nonNil(c.MobileNumbers), nonNil(c.Emails),
		c.CreditScore, c.Address, c.PinCode, c.Gender, c.Occupation, c.Income, c.DOB,
		c.AadhaarNumber, c.PanNumber, nonNil(c.IncomeProofFiles), c.AssignedAgentID,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
