package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk stores files under a root directory on the local filesystem.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk creates the root directory if needed. baseURL is the public
// prefix the files are served from, e.g. http://localhost:8080/uploads.
func NewLocalDisk(root, baseURL string) (*LocalDisk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %s: %w", root, err)
	}
	return &LocalDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory files are written to, for static serving.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) Put(ctx context.Context, path string, content io.Reader, _ string) (string, error) {
	clean, err := d.resolve(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(clean)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		return "", err
	}
	return d.URL(path), nil
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	clean, err := d.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(clean)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}

// resolve joins path under root and rejects traversal outside it.
func (d *LocalDisk) resolve(path string) (string, error) {
	clean := filepath.Join(d.root, filepath.Clean("/"+path))
	if !strings.HasPrefix(clean, filepath.Clean(d.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: invalid path %q", path)
	}
	return clean, nil
}
