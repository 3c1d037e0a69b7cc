package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("IMPORT_BATCH_SIZE", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("S3_ACCESS_KEY_ID", "")

	cfg := Load()

	if cfg.JWT.TTL != time.Hour {
		t.Errorf("JWT TTL = %v, want 1h", cfg.JWT.TTL)
	}
	if cfg.ImportBatchSize != 1000 {
		t.Errorf("ImportBatchSize = %d, want 1000", cfg.ImportBatchSize)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want uploads", cfg.UploadDir)
	}
	if cfg.S3.Enabled() {
		t.Error("object storage should be disabled without an access key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("IMPORT_BATCH_SIZE", "250")
	t.Setenv("UPLOAD_DIR", "/files/")
	t.Setenv("S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("PUBLIC_BASE_URL", "https://leads.example.com/")

	cfg := Load()

	if cfg.JWT.TTL != 30*time.Minute {
		t.Errorf("JWT TTL = %v, want 30m", cfg.JWT.TTL)
	}
	if cfg.ImportBatchSize != 250 {
		t.Errorf("ImportBatchSize = %d, want 250", cfg.ImportBatchSize)
	}
	if cfg.UploadDir != "files" {
		t.Errorf("UploadDir = %q, want files", cfg.UploadDir)
	}
	if !cfg.S3.Enabled() {
		t.Error("object storage should be enabled")
	}
	if cfg.PublicBaseURL != "https://leads.example.com" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
}

func TestValidate(t *testing.T) {
	cfg := AppConfig{DatabaseURL: "postgres://x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without encryption key")
	}

	cfg.EncryptionKey = "k"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without jwt secret")
	}

	cfg.JWT.Secret = "s"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
