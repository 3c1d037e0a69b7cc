package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanExt(t *testing.T) {
	tests := map[string]string{
		"scan.PDF":            ".pdf",
		"selfie.jpeg":         ".jpeg",
		"noext":               "",
		"evil.ph p":           "",
		"archive.tar.gz":      ".gz",
		"x.verylongextension": "",
	}
	for name, want := range tests {
		if got := cleanExt(name); got != want {
			t.Errorf("cleanExt(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")

	store, err := NewLocalStore(dir, "http://localhost:8000")
	if err != nil {
		t.Fatal(err)
	}

	url, err := store.Put(context.Background(), Object{Name: "aadhaar-front.PNG", Body: strings.NewReader("png-bytes")})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	prefix := "http://localhost:8000/" + filepath.ToSlash(dir) + "/"
	if !strings.HasPrefix(url, prefix) || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	name := strings.TrimPrefix(url, prefix)
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored %q", data)
	}

	other, err := store.Put(context.Background(), Object{Name: "aadhaar-front.PNG", Body: strings.NewReader("x")})
	if err != nil {
		t.Fatal(err)
	}
	if other == url {
		t.Error("two uploads with the same name got the same url")
	}
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, Object{Name: "a.txt", Body: strings.NewReader("x")}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestLocalStoreDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "http://localhost:8000")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, Object{Name: "pan.pdf", Body: strings.NewReader("pdf")})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("dir still holds %d files", len(entries))
	}

	// already gone
	if err := store.Delete(ctx, url); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLocalStoreDeleteRejectsForeignURLs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "http://localhost:8000")
	if err != nil {
		t.Fatal(err)
	}
	prefix := "http://localhost:8000/" + filepath.ToSlash(dir) + "/"

	for _, url := range []string{
		"http://elsewhere/file.png",
		prefix,
		prefix + "../secret",
		prefix + "sub/file.png",
		prefix + "..",
	} {
		if err := store.Delete(context.Background(), url); err != ErrForeignURL {
			t.Errorf("Delete(%q) = %v, want ErrForeignURL", url, err)
		}
	}
}
