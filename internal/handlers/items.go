// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"recipepress/internal/cache"
	"recipepress/internal/models"
	"recipepress/internal/service"
)

// ItemList returns all items, newest first. The optional ?category=
// query filters by category slug; an unknown slug yields an empty list.
func (a *API) ItemList(w http.ResponseWriter, r *http.Request) {
	var (
		items []models.Item
		err   error
	)

	if catSlug := r.URL.Query().Get("category"); catSlug != "" {
		cat, ferr := a.categories.FindBySlug(catSlug)
		if ferr != nil {
			slog.Error("find category failed", "error", ferr, "slug", catSlug)
			writeError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if cat == nil {
			writeJSON(w, http.StatusOK, []itemResponse{})
			return
		}
		items, err = a.items.ListByCategory(cat.ID)
	} else {
		items, err = a.items.List()
	}
	if err != nil {
		slog.Error("list items failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, a.itemJSON(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ItemGet returns one item by ID.
func (a *API) ItemGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid item ID.", http.StatusBadRequest)
		return
	}

	it, err := a.items.FindByID(id)
	if err != nil {
		slog.Error("find item failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if it == nil {
		writeError(w, "Item not found.", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a.itemJSON(it))
}

// ItemBySlug returns one item addressed by its public path of category
// slug plus item slug. Responses are cached; this is the endpoint the
// public site hits for every recipe view.
func (a *API) ItemBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	categorySlug := chi.URLParam(r, "categorySlug")
	itemSlug := chi.URLParam(r, "itemSlug")
	key := cache.Key(categorySlug, itemSlug)

	if a.cache != nil {
		if doc, ok := a.cache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(doc)
			return
		}
	}

	it, err := a.items.FindBySlug(categorySlug, itemSlug)
	if err != nil {
		slog.Error("find item by slug failed", "error", err,
			"category", categorySlug, "item", itemSlug)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if it == nil {
		writeError(w, "Item not found.", http.StatusNotFound)
		return
	}

	doc, err := json.Marshal(a.itemJSON(it))
	if err != nil {
		slog.Error("marshal item failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if a.cache != nil {
		a.cache.Set(ctx, key, doc)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(doc)
}

// ItemCreate creates an item from a multipart form. Notification to
// registered users defaults to on; pass notify=false to suppress it.
func (a *API) ItemCreate(w http.ResponseWriter, r *http.Request) {
	a.saveItem(w, r, 0)
}

// ItemUpdate updates an item from a multipart form. Notification
// defaults to off on updates; pass notify=true to announce the change.
func (a *API) ItemUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid item ID.", http.StatusBadRequest)
		return
	}
	a.saveItem(w, r, id)
}

// saveItem is the shared create/update path.
func (a *API) saveItem(w http.ResponseWriter, r *http.Request, id int64) {
	if !parseForm(w, r) {
		return
	}

	name := r.FormValue("name")
	if msg := validateName(name); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}
	summary := r.FormValue("summary")
	content := r.FormValue("content")
	if msg := validateItemFields(summary, content); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	var categoryID int64
	if raw := r.FormValue("category_id"); raw != "" {
		var ok bool
		categoryID, ok = parseID(raw)
		if !ok {
			writeError(w, "Invalid category_id.", http.StatusBadRequest)
			return
		}
	}

	var publishedAt time.Time
	if raw := r.FormValue("published_at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, "Invalid published_at; use RFC 3339.", http.StatusBadRequest)
			return
		}
		publishedAt = t
	}

	// New items announce themselves unless told otherwise; edits stay
	// quiet unless explicitly asked to notify.
	notify := id == 0
	if raw := r.FormValue("notify"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, "Invalid notify value.", http.StatusBadRequest)
			return
		}
		notify = v
	}

	up, err := readImageUpload(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := service.ItemInput{
		Name:        name,
		Summary:     summary,
		Content:     content,
		CategoryID:  categoryID,
		PublishedAt: publishedAt,
		Image:       up,
	}

	saved, err := a.itemSvc.Save(r.Context(), id, in, service.SaveOptions{Notify: notify})
	if err != nil {
		writeSaveError(w, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, a.itemJSON(saved))
}

// ItemIncrementViews adds one view to an item through the full save
// pipeline and returns the updated item.
func (a *API) ItemIncrementViews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid item ID.", http.StatusBadRequest)
		return
	}

	it, err := a.itemSvc.IncrementViews(r.Context(), id)
	if err != nil {
		writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.itemJSON(it))
}

// ItemDelete removes an item and its stored images.
func (a *API) ItemDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid item ID.", http.StatusBadRequest)
		return
	}

	if err := a.itemSvc.Delete(r.Context(), id); err != nil {
		writeSaveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
