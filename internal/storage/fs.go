// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS stores objects under a local directory. The router serves the root
// at /uploads/, so URLs stay derivable exactly as with the S3 backend.
type FS struct {
	root    string
	baseURL string
}

// NewFS creates a filesystem backend rooted at root, creating the
// directory if needed. baseURL is the public origin of the application.
func NewFS(root, baseURL string) (*FS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &FS{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root returns the directory holding uploaded files.
func (f *FS) Root() string {
	return f.root
}

// path maps a storage key onto the local filesystem. Keys are generated
// internally, but traversal is rejected anyway.
func (f *FS) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(f.root, clean), nil
}

// Upload writes an object under key, creating parent directories.
func (f *FS) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("fs upload %s: %w", key, err)
	}

	file, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("fs upload %s: %w", key, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		os.Remove(p)
		return fmt.Errorf("fs upload %s: %w", key, err)
	}
	return nil
}

// Download returns an object's full contents.
func (f *FS) Download(ctx context.Context, key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("fs download %s: %w", key, err)
	}
	return data, nil
}

// Delete removes an object. A missing object is not an error.
func (f *FS) Delete(ctx context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("fs delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public URL for an object under the /uploads/ mount.
func (f *FS) URL(key string) string {
	return f.baseURL + "/uploads/" + key
}
