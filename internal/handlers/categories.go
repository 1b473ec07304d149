// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"recipepress/internal/service"
)

// CategoryList returns all categories with their item counts.
func (a *API) CategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, a.categoryJSON(&categories[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CategoryGet returns one category by ID.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid category ID.", http.StatusBadRequest)
		return
	}

	cat, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err, "id", id)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		writeError(w, "Category not found.", http.StatusNotFound)
		return
	}

	count, err := a.items.CountByCategory(cat.ID)
	if err != nil {
		slog.Error("count items failed", "error", err, "category", cat.ID)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	cat.ItemCount = count

	writeJSON(w, http.StatusOK, a.categoryJSON(cat))
}

// CategoryCreate creates a category from a multipart form.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	a.saveCategory(w, r, 0)
}

// CategoryUpdate updates a category from a multipart form.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid category ID.", http.StatusBadRequest)
		return
	}
	a.saveCategory(w, r, id)
}

// saveCategory is the shared create/update path.
func (a *API) saveCategory(w http.ResponseWriter, r *http.Request, id int64) {
	if !parseForm(w, r) {
		return
	}

	name := r.FormValue("name")
	if msg := validateName(name); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	up, err := readImageUpload(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := service.CategoryInput{
		Name:    name,
		Summary: r.FormValue("summary"),
		Image:   up,
	}

	saved, err := a.categorySvc.Save(r.Context(), id, in)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, a.categoryJSON(saved))
}

// CategoryDelete removes a category. Its items move to the fallback
// category rather than being deleted.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, "Invalid category ID.", http.StatusBadRequest)
		return
	}

	if err := a.categorySvc.Delete(r.Context(), id); err != nil {
		writeSaveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
