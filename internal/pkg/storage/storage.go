// Package storage relays uploaded attachments to disk or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Object is one file to store.
type Object struct {
	Name        string // original file name, used only for its extension
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists an object and returns a URL it can be fetched from.
// Delete takes a URL previously returned by Put.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, url string) error
}

// ErrForeignURL is returned by Delete for a URL the store did not issue.
var ErrForeignURL = errors.New("url does not belong to this store")

// keyFromURL strips prefix+"/" from url and checks what is left is a bare
// object key.
func keyFromURL(url, prefix string) (string, error) {
	key, ok := strings.CutPrefix(url, prefix+"/")
	if !ok || key == "" || strings.ContainsAny(key, "/\\") || key == "." || key == ".." {
		return "", ErrForeignURL
	}
	return key, nil
}

// objectKey returns a fresh random name keeping a sanitised extension.
func objectKey(name string) string {
	return uuid.NewString() + cleanExt(name)
}

func cleanExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
