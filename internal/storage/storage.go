// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage abstracts where uploaded images live. Two backends
// implement the same interface: an S3-compatible object store for
// production and a local filesystem root for development.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store is the object storage holding category and item images.
type Store interface {
	// Upload writes an object under key.
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Download returns an object's full contents.
	Download(ctx context.Context, key string) ([]byte, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for an object.
	URL(key string) string
}

// NewKey returns a fresh object key partitioned by year/month, e.g.
// "2026/08/0b56…-….jpg". The extension must include its leading dot.
func NewKey(ext string) string {
	now := time.Now()
	return fmt.Sprintf("%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)
}
