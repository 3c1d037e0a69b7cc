// internal/service/upload/upload.go
package upload

import (
	"context"
	"fmt"

	"leaddesk-service/internal/pkg/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type UploadService struct {
	store  storage.Store
	logger *zap.Logger
}

func NewUploadService(store storage.Store, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, logger: logger}
}

// Upload stores one file and returns its URL.
func (s *UploadService) Upload(ctx context.Context, obj storage.Object) (string, error) {
	url, err := s.store.Put(ctx, obj)
	if err != nil {
		s.logger.Error("file upload failed", zap.String("name", obj.Name), zap.Error(err))
		return "", fmt.Errorf("failed to store %s: %w", obj.Name, err)
	}
	s.logger.Debug("file uploaded", zap.String("name", obj.Name), zap.String("url", url))
	return url, nil
}

// UploadMany stores files concurrently. URLs come back in input order; the
// first failure cancels the rest and removes whatever was already stored.
func (s *UploadService) UploadMany(ctx context.Context, objs []storage.Object) ([]string, error) {
	urls := make([]string, len(objs))

	g, gctx := errgroup.WithContext(ctx)
	for i, obj := range objs {
		g.Go(func() error {
			url, err := s.Upload(gctx, obj)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.Remove(context.WithoutCancel(ctx), urls)
		return nil, err
	}
	return urls, nil
}

// Remove deletes stored files. Failures are logged, not returned; empty
// entries are skipped.
func (s *UploadService) Remove(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			s.logger.Warn("failed to remove stored file", zap.String("url", url), zap.Error(err))
			continue
		}
		s.logger.Debug("stored file removed", zap.String("url", url))
	}
}
