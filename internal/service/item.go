// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"recipepress/internal/cache"
	"recipepress/internal/imaging"
	"recipepress/internal/models"
	"recipepress/internal/notify"
	"recipepress/internal/slug"
	"recipepress/internal/storage"
)

// DefaultItemContent is the body new items start from when the caller
// supplies none. ITEM_TEMPLATE_PATH replaces it at startup; there is no
// file read at package init.
//
//go:embed item_content.html
var DefaultItemContent string

// ItemInput carries the caller-settable item fields. Slug, thumbnail and
// view count are derived or protected and cannot be set directly.
type ItemInput struct {
	Name    string
	Summary string
	// Content empty on create applies the default body template.
	Content string
	// CategoryID zero falls back to the default category on create and
	// keeps the current category on update.
	CategoryID int64
	// PublishedAt zero means now on create and unchanged on update.
	PublishedAt time.Time
	// Image is required on create. Nil on update keeps the stored image;
	// the thumbnail is re-derived from it either way.
	Image *Upload
}

// ItemService persists items. Every save re-derives the slug from the
// name and the thumbnail from the image, and optionally fans out the
// publish notification once the row is safely stored.
type ItemService struct {
	items      itemStore
	categories categoryStore
	files      storage.Store
	cache      cacheInvalidator
	notifier   notify.Notifier

	defaultContent string
}

// NewItemService creates the item write pipeline. defaultContent seeds
// the body of items created without one; empty falls back to the
// embedded template.
func NewItemService(items itemStore, categories categoryStore, files storage.Store, defaultContent string) *ItemService {
	if defaultContent == "" {
		defaultContent = DefaultItemContent
	}
	return &ItemService{
		items:          items,
		categories:     categories,
		files:          files,
		defaultContent: defaultContent,
	}
}

// SetCache enables cache invalidation on writes. Call after construction
// when Valkey is configured.
func (s *ItemService) SetCache(c *cache.ItemCache) {
	if c != nil {
		s.cache = c
	}
}

// SetNotifier wires the publish notifier. Without one, saves skip the
// notification step entirely.
func (s *ItemService) SetNotifier(n notify.Notifier) {
	s.notifier = n
}

// Save creates (id 0) or updates an item.
func (s *ItemService) Save(ctx context.Context, id int64, in ItemInput, opts SaveOptions) (*models.Item, error) {
	var cur *models.Item
	if id != 0 {
		var err error
		cur, err = s.items.FindByID(id)
		if err != nil {
			return nil, fmt.Errorf("load item: %w", err)
		}
		if cur == nil {
			return nil, ErrItemNotFound
		}
	}

	views := int64(0)
	if cur != nil {
		views = cur.Views
	}
	return s.save(ctx, cur, in, opts, views)
}

// IncrementViews adds one to the item's view counter by running the full
// save pipeline, notification included. The read-add-write is not atomic;
// concurrent increments on the same item can lose updates, which is
// acceptable for a popularity counter.
func (s *ItemService) IncrementViews(ctx context.Context, id int64) (*models.Item, error) {
	cur, err := s.items.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if cur == nil {
		return nil, ErrItemNotFound
	}

	in := ItemInput{
		Name:        cur.Name,
		Summary:     cur.Summary,
		Content:     cur.Content,
		CategoryID:  cur.CategoryID,
		PublishedAt: cur.PublishedAt,
	}
	return s.save(ctx, cur, in, SaveOptions{Notify: true}, cur.Views+1)
}

// save is the single write path shared by Save and IncrementViews.
func (s *ItemService) save(ctx context.Context, cur *models.Item, in ItemInput, opts SaveOptions, views int64) (*models.Item, error) {
	newSlug := slug.Generate(in.Name)
	if newSlug == "" {
		return nil, ErrInvalidName
	}

	categoryID := in.CategoryID
	if categoryID == 0 {
		if cur != nil {
			categoryID = cur.CategoryID
		} else {
			categoryID = models.FallbackCategoryID
		}
	}
	cat, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}

	// Obtain the original image bytes: a fresh upload, or the stored
	// original so the thumbnail can be re-derived.
	var original []byte
	switch {
	case in.Image != nil:
		original = in.Image.Data
	case cur != nil:
		original, err = s.files.Download(ctx, cur.ImageKey)
		if err != nil {
			return nil, fmt.Errorf("load stored image: %w", err)
		}
	default:
		return nil, ErrMissingImage
	}

	// Derive the thumbnail before touching storage so an undecodable
	// upload fails the save without leaving files behind.
	thumb, err := imaging.Resize(original, imaging.ThumbWidth)
	if err != nil {
		return nil, fmt.Errorf("derive thumbnail: %w", err)
	}

	imageKey := ""
	if cur != nil {
		imageKey = cur.ImageKey
	}
	if in.Image != nil {
		key := storage.NewKey(uploadExt(in.Image))
		if err := s.files.Upload(ctx, key, in.Image.ContentType, bytes.NewReader(in.Image.Data), int64(len(in.Image.Data))); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		imageKey = key
	}

	thumbKey := imaging.ThumbKey(imageKey)
	if err := s.files.Upload(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	content := in.Content
	if cur == nil && content == "" {
		content = s.defaultContent
	}

	publishedAt := in.PublishedAt
	if publishedAt.IsZero() {
		if cur != nil {
			publishedAt = cur.PublishedAt
		} else {
			publishedAt = time.Now()
		}
	}

	it := &models.Item{
		Name:        in.Name,
		Summary:     in.Summary,
		ImageKey:    imageKey,
		ThumbKey:    thumbKey,
		Content:     content,
		PublishedAt: publishedAt,
		Slug:        newSlug,
		CategoryID:  categoryID,
		Views:       views,
	}

	var saved *models.Item
	if cur == nil {
		created, err := s.items.Create(it)
		if err != nil {
			return nil, err
		}
		saved = created
	} else {
		it.ID = cur.ID
		if err := s.items.Update(it); err != nil {
			return nil, err
		}
		updated, err := s.items.FindByID(cur.ID)
		if err != nil {
			return nil, fmt.Errorf("reload item: %w", err)
		}
		saved = updated

		if in.Image != nil && cur.ImageKey != "" && cur.ImageKey != imageKey {
			s.deleteFiles(ctx, cur.ImageKey, imaging.ThumbKey(cur.ImageKey))
		}
	}

	if s.cache != nil && cur != nil {
		s.invalidate(ctx, cur, saved, cat)
	}

	if opts.Notify && s.notifier != nil {
		ev := notify.ItemEvent{
			ItemName:     saved.Name,
			CategorySlug: cat.Slug,
			ItemSlug:     saved.Slug,
			ThumbnailURL: s.files.URL(saved.ThumbKey),
		}
		// Notification failures never fail the save.
		if err := s.notifier.ItemPublished(ctx, ev); err != nil {
			slog.Error("publish notification failed", "item", saved.Name, "error", err)
		}
	}

	return saved, nil
}

// Delete removes an item along with its stored image, thumbnail and
// cached document.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	cur, err := s.items.FindByID(id)
	if err != nil {
		return fmt.Errorf("load item: %w", err)
	}
	if cur == nil {
		return ErrItemNotFound
	}

	if err := s.items.Delete(id); err != nil {
		return err
	}

	s.deleteFiles(ctx, cur.ImageKey, cur.ThumbKey)

	if s.cache != nil {
		if cat, err := s.categories.FindByID(cur.CategoryID); err == nil && cat != nil {
			s.cache.Invalidate(ctx, cache.Key(cat.Slug, cur.Slug))
		}
	}
	return nil
}

// invalidate drops the cached documents for the item's previous and new
// public paths after an update.
func (s *ItemService) invalidate(ctx context.Context, prev, saved *models.Item, cat *models.Category) {
	if oldCat, err := s.categories.FindByID(prev.CategoryID); err == nil && oldCat != nil {
		s.cache.Invalidate(ctx, cache.Key(oldCat.Slug, prev.Slug))
	}
	s.cache.Invalidate(ctx, cache.Key(cat.Slug, saved.Slug))
}

// deleteFiles removes storage objects best-effort; a failed delete leaves
// an orphan but never fails the surrounding write.
func (s *ItemService) deleteFiles(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil {
			slog.Warn("stored file not deleted", "key", key, "error", err)
		}
	}
}
