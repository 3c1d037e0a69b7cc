package jwt

import (
	"testing"
	"time"
)

func testManager(t *testing.T, secret string, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewHMACManager(Config{
		Secret:   secret,
		Issuer:   "leaddesk",
		Audience: "leaddesk-users",
		TTL:      ttl,
	})
	if err != nil {
		t.Fatalf("NewHMACManager: %v", err)
	}
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager(t, "s3cret", time.Hour)

	issued, err := m.Generator.GenerateAccessToken(42, "agent")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if issued.JTI == "" {
		t.Fatal("expected a jti")
	}

	claims, err := m.Verifier.Verify(issued.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "agent" || claims.IsAdmin() {
		t.Errorf("Role = %q, want agent", claims.Role)
	}
	if claims.ID != issued.JTI {
		t.Errorf("jti = %q, want %q", claims.ID, issued.JTI)
	}
}

func TestVerifyRejects(t *testing.T) {
	good := testManager(t, "s3cret", time.Hour)
	other := testManager(t, "another", time.Hour)
	expired := testManager(t, "s3cret", -time.Minute)

	valid, _ := good.Generator.GenerateAccessToken(1, "admin")
	foreign, _ := other.Generator.GenerateAccessToken(1, "admin")
	stale, _ := expired.Generator.GenerateAccessToken(1, "admin")

	tests := []struct {
		name  string
		token string
	}{
		{"wrong signature", foreign.Token},
		{"expired", stale.Token},
		{"garbage", "not-a-token"},
		{"tampered", valid.Token + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := good.Verifier.Verify(tt.token); err == nil {
				t.Fatal("expected verification error")
			}
		})
	}
}

func TestNewHMACManagerRequiresSecret(t *testing.T) {
	if _, err := NewHMACManager(Config{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
