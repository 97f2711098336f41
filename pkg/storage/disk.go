// Package storage abstracts file storage for uploaded product images.
// Two disks are provided: local filesystem and S3.
package storage

import (
	"context"
	"io"
)

// Disk stores and serves uploaded files.
type Disk interface {
	// Put writes content under path and returns a public URL.
	Put(ctx context.Context, path string, content io.Reader, contentType string) (string, error)
	// Delete removes the file at path. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for a stored path.
	URL(path string) string
}
