// Package storage abstracts where uploaded images live. Listings and profile
// photos go through this interface; the bucket implementation talks to the
// hosted bucket API and the memory implementation backs tests.
package storage

import (
	"context"
	"io"
)

// MaxImageSize is the largest accepted image upload, in bytes.
const MaxImageSize = 1024 * 1024

// Storage defines the interface for image storage operations.
type Storage interface {
	// Upload stores a file and returns the result with key and public URL.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for the given key.
	GetURL(ctx context.Context, key string) (string, error)
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
	URL string
}
