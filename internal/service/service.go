// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service implements the write pipelines behind the content API.
// A save re-derives everything that depends on caller-settable fields
// (the slug from the name, the thumbnail from the image) so derived state
// can never drift from its source. Reads go straight to the stores; only
// writes pass through here.
package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"recipepress/internal/models"
)

var (
	// ErrInvalidName means the name produced an empty slug.
	ErrInvalidName = errors.New("name must contain at least one letter or digit")

	// ErrMissingImage means a create was attempted without an image upload.
	ErrMissingImage = errors.New("an image upload is required")

	// ErrCategoryNotFound and ErrItemNotFound report writes against rows
	// that do not exist.
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")

	// ErrFallbackCategory guards the category that orphaned items fall
	// back to. Deleting it would break the items foreign key default.
	ErrFallbackCategory = errors.New("the fallback category cannot be deleted")
)

// Upload is a file received from a client, fully read into memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SaveOptions control the side effects of an item save.
type SaveOptions struct {
	// Notify sends the publish notification to registered users after a
	// successful save. Off by default so routine edits stay quiet.
	Notify bool
}

// categoryStore is the category persistence surface the services consume.
type categoryStore interface {
	FindByID(id int64) (*models.Category, error)
	Create(c *models.Category) (*models.Category, error)
	Update(c *models.Category) error
	Delete(id int64) error
}

// itemStore is the item persistence surface the services consume.
type itemStore interface {
	FindByID(id int64) (*models.Item, error)
	Create(i *models.Item) (*models.Item, error)
	Update(i *models.Item) error
	Delete(id int64) error
}

// cacheInvalidator drops cached item documents after writes. Reads are
// cached at the handler layer; the services only invalidate.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
}

// uploadExt picks the storage key extension for an upload: the original
// filename extension when present, otherwise one derived from the sniffed
// content type.
func uploadExt(up *Upload) string {
	if ext := strings.ToLower(filepath.Ext(up.Filename)); ext != "" {
		return ext
	}
	switch up.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
