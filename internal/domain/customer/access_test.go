package customer

import (
	"errors"
	"testing"

	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func TestAuthorize(t *testing.T) {
	admin := &user.Actor{ID: 1, Role: user.RoleAdmin}
	owner := &user.Actor{ID: 7, Role: user.RoleAgent}
	other := &user.Actor{ID: 8, Role: user.RoleAgent}

	assigned := &Customer{ID: 100, AssignedAgentID: ptr(int64(7))}
	unassigned := &Customer{ID: 101}

	tests := []struct {
		name  string
		actor *user.Actor
		c     *Customer
		want  error
	}{
		{"admin on assigned", admin, assigned, nil},
		{"admin on unassigned", admin, unassigned, nil},
		{"owner", owner, assigned, nil},
		{"other agent", other, assigned, xerrors.ErrForbidden},
		{"agent on unassigned", owner, unassigned, xerrors.ErrForbidden},
		{"missing customer beats role", other, nil, xerrors.ErrNotFound},
		{"missing customer for admin", admin, nil, xerrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.c)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		page, limit                     int
		wantPage, wantLimit, wantOffset int
	}{
		{0, 0, 1, 10, 0},
		{2, 10, 2, 10, 10},
		{3, 25, 3, 25, 50},
		{1, 500, 1, 100, 0},
		{-4, -1, 1, 10, 0},
	}

	for _, tt := range tests {
		page, limit, offset := Paginate(tt.page, tt.limit)
		if page != tt.wantPage || limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("Paginate(%d, %d) = %d, %d, %d; want %d, %d, %d",
				tt.page, tt.limit, page, limit, offset, tt.wantPage, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestParsers(t *testing.T) {
	if d, ok := ParseDate("15/08/1990"); !ok || d.Month() != 8 || d.Day() != 15 {
		t.Errorf("ParseDate day-first = %v, %v", d, ok)
	}
	if d, ok := ParseDate("1990-08-15"); !ok || d.Year() != 1990 {
		t.Errorf("ParseDate iso = %v, %v", d, ok)
	}
	if _, ok := ParseDate("not a date"); ok {
		t.Error("ParseDate accepted garbage")
	}
	if n := ParseInt("742"); n == nil || *n != 742 {
		t.Errorf("ParseInt = %v", n)
	}
	if n := ParseInt("abc"); n != nil {
		t.Errorf("ParseInt garbage = %v", *n)
	}
	if f := ParseFloat("1,20,000.50"); f == nil || *f != 120000.5 {
		t.Errorf("ParseFloat = %v", f)
	}
	if id, ok := ParseAgentRef("x12"); ok || id != nil {
		t.Error("ParseAgentRef accepted a non-numeric reference")
	}
	if got := SplitList(" 98; ;99 "); len(got) != 2 || got[0] != "98" || got[1] != "99" {
		t.Errorf("SplitList = %v", got)
	}
}
