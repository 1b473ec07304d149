// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"recipepress/internal/models"
	"recipepress/internal/notify"
)

// fakeCategoryStore is an in-memory categoryStore.
type fakeCategoryStore struct {
	categories map[int64]models.Category
	nextID     int64
}

func newFakeCategoryStore() *fakeCategoryStore {
	f := &fakeCategoryStore{categories: make(map[int64]models.Category), nextID: 1}
	// The fallback category always exists; migrations guarantee it.
	f.categories[models.FallbackCategoryID] = models.Category{
		ID:   models.FallbackCategoryID,
		Name: "Uncategorized",
		Slug: "uncategorized",
	}
	return f
}

func (f *fakeCategoryStore) FindByID(id int64) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCategoryStore) Create(c *models.Category) (*models.Category, error) {
	f.nextID++
	stored := *c
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.categories[stored.ID] = stored
	return &stored, nil
}

func (f *fakeCategoryStore) Update(c *models.Category) error {
	cur, ok := f.categories[c.ID]
	if !ok {
		return fmt.Errorf("category %d not found", c.ID)
	}
	stored := *c
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = time.Now()
	f.categories[stored.ID] = stored
	return nil
}

func (f *fakeCategoryStore) Delete(id int64) error {
	delete(f.categories, id)
	return nil
}

// fakeItemStore is an in-memory itemStore.
type fakeItemStore struct {
	items  map[int64]models.Item
	nextID int64
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: make(map[int64]models.Item)}
}

func (f *fakeItemStore) FindByID(id int64) (*models.Item, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (f *fakeItemStore) Create(i *models.Item) (*models.Item, error) {
	f.nextID++
	stored := *i
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.items[stored.ID] = stored
	return &stored, nil
}

func (f *fakeItemStore) Update(i *models.Item) error {
	cur, ok := f.items[i.ID]
	if !ok {
		return fmt.Errorf("item %d not found", i.ID)
	}
	stored := *i
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = time.Now()
	f.items[stored.ID] = stored
	return nil
}

func (f *fakeItemStore) Delete(id int64) error {
	delete(f.items, id)
	return nil
}

// fakeStorage is an in-memory storage.Store. It records uploads,
// downloads and deletes in order.
type fakeStorage struct {
	objects   map[string][]byte
	uploads   []string
	downloads []string
	deletes   []string

	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	f.downloads = append(f.downloads, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return data, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeStorage) URL(key string) string {
	return "http://files.test/" + key
}

// fakeCache records invalidations.
type fakeCache struct {
	invalidated []string
	flushes     int
}

func (f *fakeCache) Invalidate(ctx context.Context, key string) {
	f.invalidated = append(f.invalidated, key)
}

func (f *fakeCache) InvalidateAll(ctx context.Context) {
	f.flushes++
}

// fakeNotifier records publish events and returns a configurable error.
type fakeNotifier struct {
	events []notify.ItemEvent
	err    error
}

func (f *fakeNotifier) ItemPublished(ctx context.Context, ev notify.ItemEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

// testPNG encodes a small valid PNG for upload fixtures.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// testUpload wraps testPNG in an Upload.
func testUpload(t *testing.T, name string) *Upload {
	t.Helper()
	return &Upload{
		Filename:    name,
		ContentType: "image/png",
		Data:        testPNG(t, 640, 480),
	}
}
