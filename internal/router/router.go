// Package router sets up the HTTP routes and middleware chains for the
// RecipePress API. Mutating routes carry per-IP rate limiting on top of
// the global stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"recipepress/internal/handlers"
	"recipepress/internal/middleware"
)

// New creates and returns the configured Chi router. uploadsDir serves
// stored files under /uploads/ when the filesystem storage backend is in
// use; empty disables the route (S3 serves files directly).
func New(api *handlers.API, limiter *middleware.RateLimiter, uploadsDir string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoryList)
			r.Get("/{id}", api.CategoryGet)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/", api.CategoryCreate)
				r.Put("/{id}", api.CategoryUpdate)
				r.Delete("/{id}", api.CategoryDelete)
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", api.ItemList)
			r.Get("/{id:[0-9]+}", api.ItemGet)
			r.Get("/{categorySlug}/{itemSlug}", api.ItemBySlug)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/", api.ItemCreate)
				r.Put("/{id}", api.ItemUpdate)
				r.Delete("/{id}", api.ItemDelete)
				r.Post("/{id}/views", api.ItemIncrementViews)
			})
		})
	})

	// Stored files, only with the filesystem backend.
	if uploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
