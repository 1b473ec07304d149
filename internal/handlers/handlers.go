// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the RecipePress JSON
// API. Reads go straight to the stores; writes run through the service
// pipelines so slugs, thumbnails and notifications stay consistent.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"recipepress/internal/cache"
	"recipepress/internal/imaging"
	"recipepress/internal/models"
	"recipepress/internal/service"
	"recipepress/internal/storage"
	"recipepress/internal/store"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// Validation limits for caller-settable fields.
	maxNameLen    = 200
	maxSummaryLen = 200
	maxContentLen = 100_000
)

// allowedImageTypes defines MIME types accepted for image uploads.
// Everything here can be decoded for thumbnail derivation.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// API groups the JSON API handlers and their dependencies.
type API struct {
	categories  *store.CategoryStore
	items       *store.ItemStore
	categorySvc *service.CategoryService
	itemSvc     *service.ItemService
	files       storage.Store
	cache       *cache.ItemCache // nil when Valkey is not configured
}

// NewAPI creates the API handler group. cache may be nil.
func NewAPI(categories *store.CategoryStore, items *store.ItemStore, categorySvc *service.CategoryService, itemSvc *service.ItemService, files storage.Store, itemCache *cache.ItemCache) *API {
	return &API{
		categories:  categories,
		items:       items,
		categorySvc: categorySvc,
		itemSvc:     itemSvc,
		files:       files,
		cache:       itemCache,
	}
}

// categoryResponse is the JSON shape for a category.
type categoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"image_url"`
	ItemCount int64     `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// itemResponse is the JSON shape for an item.
type itemResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Summary      string    `json:"summary"`
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	CategoryID   int64     `json:"category_id"`
	Views        int64     `json:"views"`
	PublishedAt  time.Time `json:"published_at"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *API) categoryJSON(c *models.Category) categoryResponse {
	resp := categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Summary:   c.Summary,
		Slug:      c.Slug,
		ItemCount: c.ItemCount,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ImageKey != "" {
		resp.ImageURL = a.files.URL(c.ImageKey)
	}
	return resp
}

func (a *API) itemJSON(i *models.Item) itemResponse {
	resp := itemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Summary:     i.Summary,
		Slug:        i.Slug,
		Content:     i.Content,
		CategoryID:  i.CategoryID,
		Views:       i.Views,
		PublishedAt: i.PublishedAt,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
	if i.ImageKey != "" {
		resp.ImageURL = a.files.URL(i.ImageKey)
	}
	if i.ThumbKey != "" {
		resp.ThumbnailURL = a.files.URL(i.ThumbKey)
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeSaveError maps service and store errors onto API status codes.
func writeSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidName):
		writeError(w, "Name must contain at least one letter or digit.", http.StatusBadRequest)
	case errors.Is(err, service.ErrMissingImage):
		writeError(w, "An image upload is required.", http.StatusBadRequest)
	case errors.Is(err, imaging.ErrBadImage):
		writeError(w, "The uploaded image could not be decoded.", http.StatusBadRequest)
	case errors.Is(err, service.ErrCategoryNotFound):
		writeError(w, "Category not found.", http.StatusNotFound)
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, "Item not found.", http.StatusNotFound)
	case errors.Is(err, service.ErrFallbackCategory):
		writeError(w, "The fallback category cannot be deleted.", http.StatusConflict)
	case errors.Is(err, store.ErrCategoryExists):
		writeError(w, "A category with this name or slug already exists.", http.StatusConflict)
	case errors.Is(err, store.ErrItemExists):
		writeError(w, "An item with this name or slug already exists.", http.StatusConflict)
	default:
		slog.Error("save failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// parseForm bounds and parses a multipart form request. It reports
// oversized bodies as 413 and returns false after writing the response.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "Request too large. Maximum upload size is 50 MB.", http.StatusRequestEntityTooLarge)
		return false
	}
	return true
}

// readImageUpload extracts the optional "image" file from a parsed
// multipart form. The content type comes from sniffing the first 512
// bytes, never from the client-supplied header. Returns nil when the
// field is absent.
func readImageUpload(r *http.Request) (*service.Upload, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("invalid image field")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	contentType := http.DetectContentType(sniff)
	if !allowedImageTypes[contentType] {
		return nil, errors.New("unsupported image type " + contentType)
	}

	return &service.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// parseID reads a positive integer path parameter.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// validateName checks a name form input and returns the first problem.
func validateName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// validateItemFields checks item form inputs beyond the name.
func validateItemFields(summary, content string) string {
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		return "Summary is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}
