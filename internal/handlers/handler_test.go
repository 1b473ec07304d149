// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// the cache tests additionally need Valkey.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"recipepress/internal/cache"
	"recipepress/internal/database"
	"recipepress/internal/notify"
	"recipepress/internal/service"
	"recipepress/internal/storage"
	"recipepress/internal/store"
)

// mockNotifier implements notify.Notifier for handler tests.
type mockNotifier struct {
	events []notify.ItemEvent
	err    error
}

func (m *mockNotifier) ItemPublished(_ context.Context, ev notify.ItemEvent) error {
	m.events = append(m.events, ev)
	return m.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "recipepress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "recipepress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client, err := cache.ConnectValkey(host, port, password, 15)
	if err != nil {
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	ctx := context.Background()
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "item:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests. Files
// land in a per-test temp directory; notifications are recorded in
// memory.
type testEnv struct {
	DB          *sql.DB
	Files       storage.Store
	Categories  *store.CategoryStore
	Items       *store.ItemStore
	CategorySvc *service.CategoryService
	ItemSvc     *service.ItemService
	Notifier    *mockNotifier
	API         *API
}

// newTestEnv creates a complete test environment with all handler
// dependencies. The cache stays nil; cache tests wire it themselves.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	files, err := storage.NewFS(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("storage.NewFS: %v", err)
	}

	categories := store.NewCategoryStore(db)
	items := store.NewItemStore(db)

	notifier := &mockNotifier{}
	categorySvc := service.NewCategoryService(categories, files)
	itemSvc := service.NewItemService(items, categories, files, "")
	itemSvc.SetNotifier(notifier)

	return &testEnv{
		DB:          db,
		Files:       files,
		Categories:  categories,
		Items:       items,
		CategorySvc: categorySvc,
		ItemSvc:     itemSvc,
		Notifier:    notifier,
		API:         NewAPI(categories, items, categorySvc, itemSvc, files, nil),
	}
}

// uniqueSuffix returns a short random suffix so test rows never collide
// with leftovers from earlier runs.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiSlugParams adds the category and item slug parameters used by
// the public item endpoint.
func withChiSlugParams(r *http.Request, categorySlug, itemSlug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("categorySlug", categorySlug)
	rctx.URLParams.Add("itemSlug", itemSlug)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testPNG encodes a small PNG with visible gradients so resizing has
// real pixel data to work on.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a multipart form request from text fields
// plus an optional image part.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, imageData []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if imageData != nil {
		fw, err := mw.CreateFormFile("image", "upload.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// createTestCategory inserts a category through the full handler path
// and returns the response. The caller is responsible for cleanup.
func createTestCategory(t *testing.T, env *testEnv, name string) categoryResponse {
	t.Helper()

	req := multipartRequest(t, http.MethodPost, "/api/categories",
		map[string]string{"name": name, "summary": "Test category"}, testPNG(t, 640, 480))
	rec := httptest.NewRecorder()
	env.API.CategoryCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("createTestCategory: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp categoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("createTestCategory decode: %v", err)
	}
	return resp
}

// createTestItem inserts an item through the full handler path with
// notifications suppressed and returns the response.
func createTestItem(t *testing.T, env *testEnv, name string, categoryID int64) itemResponse {
	t.Helper()

	fields := map[string]string{
		"name":    name,
		"summary": "Test item",
		"notify":  "false",
	}
	if categoryID != 0 {
		fields["category_id"] = strconv.FormatInt(categoryID, 10)
	}
	req := multipartRequest(t, http.MethodPost, "/api/items", fields, testPNG(t, 640, 480))
	rec := httptest.NewRecorder()
	env.API.ItemCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("createTestItem: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp itemResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("createTestItem decode: %v", err)
	}
	return resp
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}

// cleanItems removes test items by slug.
func cleanItems(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM items WHERE slug = $1", s)
	}
}
