// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipepress/internal/models"
)

func newCategoryService() (*CategoryService, *fakeCategoryStore, *fakeStorage, *fakeCache) {
	cats := newFakeCategoryStore()
	files := newFakeStorage()
	fc := &fakeCache{}
	svc := NewCategoryService(cats, files)
	svc.cache = fc
	return svc, cats, files, fc
}

func TestCategorySaveCreate(t *testing.T) {
	svc, _, files, _ := newCategoryService()
	ctx := context.Background()

	created, err := svc.Save(ctx, 0, CategoryInput{
		Name:    "Hearty Soups",
		Summary: "Warm bowls for cold days.",
		Image:   testUpload(t, "soups.png"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected assigned ID")
	}
	if created.Slug != "hearty-soups" {
		t.Errorf("slug: got %q, want %q", created.Slug, "hearty-soups")
	}
	if created.ImageKey == "" {
		t.Fatal("expected stored image key")
	}
	// The stored image is the resized JPEG, not the upload.
	if !strings.HasSuffix(created.ImageKey, ".jpg") {
		t.Errorf("image key: got %q, want .jpg", created.ImageKey)
	}
	if len(files.objects) != 1 {
		t.Errorf("stored objects: got %d, want 1", len(files.objects))
	}
}

func TestCategorySaveDerivesSlug(t *testing.T) {
	svc, _, _, _ := newCategoryService()
	ctx := context.Background()

	created, err := svc.Save(ctx, 0, CategoryInput{
		Name:  "Crème Brûlée Desserts",
		Image: testUpload(t, "desserts.png"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if created.Slug != "creme-brulee-desserts" {
		t.Errorf("slug: got %q, want %q", created.Slug, "creme-brulee-desserts")
	}
}

func TestCategorySaveInvalidName(t *testing.T) {
	svc, _, _, _ := newCategoryService()
	ctx := context.Background()

	for _, name := range []string{"", "   ", "!!!", "🦄"} {
		_, err := svc.Save(ctx, 0, CategoryInput{Name: name, Image: testUpload(t, "x.png")})
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Save(%q): got %v, want ErrInvalidName", name, err)
		}
	}
}

func TestCategorySaveCreateRequiresImage(t *testing.T) {
	svc, _, _, _ := newCategoryService()

	_, err := svc.Save(context.Background(), 0, CategoryInput{Name: "Soups"})
	if !errors.Is(err, ErrMissingImage) {
		t.Errorf("got %v, want ErrMissingImage", err)
	}
}

func TestCategorySaveRejectsBadImage(t *testing.T) {
	svc, cats, files, _ := newCategoryService()
	ctx := context.Background()

	_, err := svc.Save(ctx, 0, CategoryInput{
		Name:  "Soups",
		Image: &Upload{Filename: "x.png", ContentType: "image/png", Data: []byte("not an image")},
	})
	if err == nil {
		t.Fatal("expected error for undecodable image")
	}
	if len(files.objects) != 0 {
		t.Error("no object should be stored on a failed save")
	}
	if len(cats.categories) != 1 { // only the fallback row
		t.Error("no category should be persisted on a failed save")
	}
}

func TestCategorySaveUpdate(t *testing.T) {
	svc, _, files, fc := newCategoryService()
	ctx := context.Background()

	created, err := svc.Save(ctx, 0, CategoryInput{Name: "Soups", Image: testUpload(t, "a.png")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Update without image keeps the stored key and re-derives the slug.
	updated, err := svc.Save(ctx, created.ID, CategoryInput{Name: "Winter Soups", Summary: "New"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "winter-soups" {
		t.Errorf("slug: got %q, want %q", updated.Slug, "winter-soups")
	}
	if updated.ImageKey != created.ImageKey {
		t.Errorf("image key changed without a new upload: %q → %q", created.ImageKey, updated.ImageKey)
	}
	if fc.flushes != 1 {
		t.Errorf("cache flushes: got %d, want 1", fc.flushes)
	}

	// A new upload replaces the image and removes the old object.
	replaced, err := svc.Save(ctx, created.ID, CategoryInput{Name: "Winter Soups", Image: testUpload(t, "b.png")})
	if err != nil {
		t.Fatalf("replace image: %v", err)
	}
	if replaced.ImageKey == created.ImageKey {
		t.Error("expected a new image key")
	}
	if len(files.deletes) != 1 || files.deletes[0] != created.ImageKey {
		t.Errorf("deletes: got %v, want [%s]", files.deletes, created.ImageKey)
	}
}

func TestCategorySaveUpdateMissing(t *testing.T) {
	svc, _, _, _ := newCategoryService()

	_, err := svc.Save(context.Background(), 99, CategoryInput{Name: "Ghost"})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("got %v, want ErrCategoryNotFound", err)
	}
}

func TestCategoryDelete(t *testing.T) {
	svc, cats, files, fc := newCategoryService()
	ctx := context.Background()

	created, err := svc.Save(ctx, 0, CategoryInput{Name: "Soups", Image: testUpload(t, "a.png")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if c, _ := cats.FindByID(created.ID); c != nil {
		t.Error("category still present after delete")
	}
	if len(files.objects) != 0 {
		t.Error("category image should be removed")
	}
	if fc.flushes != 1 {
		t.Errorf("cache flushes: got %d, want 1", fc.flushes)
	}
}

func TestCategoryDeleteFallbackGuard(t *testing.T) {
	svc, cats, _, _ := newCategoryService()

	err := svc.Delete(context.Background(), models.FallbackCategoryID)
	if !errors.Is(err, ErrFallbackCategory) {
		t.Errorf("got %v, want ErrFallbackCategory", err)
	}
	if c, _ := cats.FindByID(models.FallbackCategoryID); c == nil {
		t.Error("fallback category must survive")
	}
}

func TestCategoryDeleteMissing(t *testing.T) {
	svc, _, _, _ := newCategoryService()

	err := svc.Delete(context.Background(), 99)
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("got %v, want ErrCategoryNotFound", err)
	}
}
