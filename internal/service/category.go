// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"recipepress/internal/cache"
	"recipepress/internal/imaging"
	"recipepress/internal/models"
	"recipepress/internal/slug"
	"recipepress/internal/storage"
)

// CategoryInput carries the caller-settable category fields. The slug and
// the stored image key are derived during save.
type CategoryInput struct {
	Name    string
	Summary string
	// Image is required on create. Nil on update keeps the stored image.
	Image *Upload
}

// CategoryService persists categories and keeps their derived state
// (slug, resized image) in sync with the caller-settable fields.
type CategoryService struct {
	categories categoryStore
	files      storage.Store
	cache      cacheInvalidator
}

// NewCategoryService creates the category write pipeline.
func NewCategoryService(categories categoryStore, files storage.Store) *CategoryService {
	return &CategoryService{categories: categories, files: files}
}

// SetCache enables cache invalidation on writes. Call after construction
// when Valkey is configured.
func (s *CategoryService) SetCache(c *cache.ItemCache) {
	if c != nil {
		s.cache = c
	}
}

// Save creates (id 0) or updates a category. The slug is recomputed from
// the name and a new image upload is resized to the standard width before
// being stored; both derivations happen on every save.
func (s *CategoryService) Save(ctx context.Context, id int64, in CategoryInput) (*models.Category, error) {
	newSlug := slug.Generate(in.Name)
	if newSlug == "" {
		return nil, ErrInvalidName
	}

	var cur *models.Category
	if id != 0 {
		var err error
		cur, err = s.categories.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("load category: %w", err)
		}
		if cur == nil {
			return nil, ErrCategoryNotFound
		}
	}

	imageKey := ""
	if cur != nil {
		imageKey = cur.ImageKey
	}
	if in.Image == nil && cur == nil {
		return nil, ErrMissingImage
	}
	if in.Image != nil {
		resized, err := imaging.Resize(in.Image.Data, imaging.StandardWidth)
		if err != nil {
			return nil, fmt.Errorf("resize image: %w", err)
		}
		// The resize re-encodes to JPEG regardless of the upload format.
		key := storage.NewKey(".jpg")
		if err := s.files.Upload(ctx, key, "image/jpeg", bytes.NewReader(resized), int64(len(resized))); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		imageKey = key
	}

	cat := &models.Category{
		ID:       id,
		Name:     in.Name,
		Summary:  in.Summary,
		ImageKey: imageKey,
		Slug:     newSlug,
	}

	var saved *models.Category
	if cur == nil {
		created, err := s.categories.Create(cat)
		if err != nil {
			return nil, err
		}
		saved = created
	} else {
		if err := s.categories.Update(cat); err != nil {
			return nil, err
		}
		updated, err := s.categories.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("reload category: %w", err)
		}
		saved = updated

		// The old image is unreferenced once the update lands.
		if in.Image != nil && cur.ImageKey != "" && cur.ImageKey != imageKey {
			if err := s.files.Delete(ctx, cur.ImageKey); err != nil {
				slog.Warn("orphaned category image not deleted",
					"key", cur.ImageKey, "error", err)
			}
		}

		// Cached item documents embed the category name and slug, and a
		// rename moves every item path under this category.
		if s.cache != nil {
			s.cache.InvalidateAll(ctx)
		}
	}

	return saved, nil
}

// Delete removes a category. Items referencing it fall back to the
// default category through the schema; their cached documents are dropped.
// The fallback category itself cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if id == models.FallbackCategoryID {
		return ErrFallbackCategory
	}

	cur, err := s.categories.FindByID(id)
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if cur == nil {
		return ErrCategoryNotFound
	}

	if err := s.categories.Delete(id); err != nil {
		return err
	}

	if cur.ImageKey != "" {
		if err := s.files.Delete(ctx, cur.ImageKey); err != nil {
			slog.Warn("category image not deleted", "key", cur.ImageKey, "error", err)
		}
	}

	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	return nil
}
