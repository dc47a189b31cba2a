// Package bucket implements storage.Storage against an S3-compatible HTTP
// bucket API (Supabase storage and friends). All calls run through the
// circuit-breaker client.
package bucket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/qm1997qm/home-away-clone/internal/storage"
	"github.com/qm1997qm/home-away-clone/pkg/httpclient"
)

// Config holds bucket API settings.
type Config struct {
	BaseURL string
	Bucket  string
	APIKey  string
}

// Storage implements storage.Storage over the bucket HTTP API.
type Storage struct {
	http   *httpclient.CircuitBreakerClient
	cfg    Config
	logger *slog.Logger
}

// New creates a new bucket-backed storage.
func New(cfg Config, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Storage {
	return &Storage{http: http, cfg: cfg, logger: logger}
}

func (s *Storage) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, key)
}

func (s *Storage) publicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, key)
}

// Upload streams the file to the bucket and returns its public URL.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(input.Key), input.Data)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", input.ContentType)
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.ContentLength = input.Size

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload object %s: %w", input.Key, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "bucket storage")
	}
	_ = resp.Body.Close()

	s.logger.InfoContext(ctx, "object uploaded",
		slog.String("bucket", s.cfg.Bucket),
		slog.String("key", input.Key),
		slog.Int64("size", input.Size),
	)

	return &storage.UploadResult{
		Key: input.Key,
		URL: s.publicURL(input.Key),
	}, nil
}

// Delete removes the object from the bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), http.NoBody)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "bucket storage")
	}
	_ = resp.Body.Close()

	return nil
}

// GetURL returns the public URL for the given key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	return s.publicURL(key), nil
}
