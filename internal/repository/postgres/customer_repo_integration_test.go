package postgres

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"leaddesk-service/internal/db"
	"leaddesk-service/internal/domain/customer"
	"leaddesk-service/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// testPool connects to DATABASE_URL and applies the schema. Tests using it are
// skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: url})
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return pool
}

func TestCustomerRepositoryAgainstPostgres(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCustomerRepository(NewDB(pool))

	// A unique pin code keeps this run's rows apart from anything else in the database.
	tag := ulid.Make().String()
	pin := tag[len(tag)-10:]
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM customers WHERE pin_code = $1`, pin)
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE agent_code = $1`, tag)
	})

	agent := &user.User{DisplayName: "Asha", AgentCode: tag, Email: tag + "@leaddesk.test", PasswordHash: "x", Role: user.RoleAgent}
	if err := NewUserRepository(pool).Create(ctx, agent); err != nil {
		t.Fatalf("create agent: %v", err)
	}

	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	gender := customer.GenderFemale
	first := &customer.Customer{
		CustomerName:     "Lead 0",
		MobileNumbers:    []string{"9000000001", "9000000002"},
		Emails:           []string{"lead0@x.io"},
		PinCode:          &pin,
		Gender:           &gender,
		DOB:              &dob,
		IncomeProofFiles: []string{"https://f/slip.pdf"},
		AssignedAgentID:  &agent.ID,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !reflect.DeepEqual(got.MobileNumbers, first.MobileNumbers) || !reflect.DeepEqual(got.IncomeProofFiles, first.IncomeProofFiles) {
		t.Errorf("arrays = %v / %v", got.MobileNumbers, got.IncomeProofFiles)
	}
	if got.AssignedAgentName == nil || *got.AssignedAgentName != "Asha" {
		t.Errorf("AssignedAgentName = %v", got.AssignedAgentName)
	}
	if got.DOB == nil || got.DOB.Format("2006-01-02") != "1990-05-17" {
		t.Errorf("DOB = %v", got.DOB)
	}

	for i := 1; i < 12; i++ {
		c := &customer.Customer{CustomerName: "Lead", MobileNumbers: []string{"9"}, PinCode: &pin}
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page1, total, err := repo.List(ctx, ListQuery{PinCode: pin, Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	page2, _, err := repo.List(ctx, ListQuery{PinCode: pin, Limit: 10, Offset: 10})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if total != 12 || len(page1) != 10 || len(page2) != 2 {
		t.Fatalf("total=%d page1=%d page2=%d, want 12/10/2", total, len(page1), len(page2))
	}
	if page2[len(page2)-1].ID != first.ID {
		t.Errorf("oldest row %d not last on page 2", first.ID)
	}

	assigned, _, err := repo.List(ctx, ListQuery{PinCode: pin, AgentID: &agent.ID, Limit: 10})
	if err != nil || len(assigned) != 1 {
		t.Errorf("agent filter = %d rows, err %v", len(assigned), err)
	}

	n, err := repo.CopyInsert(ctx, []customer.Customer{
		{CustomerName: "Bulk 1", MobileNumbers: []string{"1"}, PinCode: &pin, DOB: &dob},
		{CustomerName: "Bulk 2", PinCode: &pin, Gender: &gender, AssignedAgentID: &agent.ID},
	})
	if err != nil || n != 2 {
		t.Fatalf("CopyInsert = %d, %v", n, err)
	}
	if _, total, _ = repo.List(ctx, ListQuery{PinCode: pin, Limit: 1}); total != 14 {
		t.Errorf("total after copy = %d, want 14", total)
	}

	unassigned, err := repo.SetAssignment(ctx, first.ID, nil)
	if err != nil || unassigned.AssignedAgentID != nil {
		t.Errorf("SetAssignment(nil) = %+v, %v", unassigned, err)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, first.ID); err == nil {
		t.Error("customer still found after delete")
	}
}
