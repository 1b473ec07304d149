// Package main is the entry point for the RecipePress server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipepress/internal/cache"
	"recipepress/internal/config"
	"recipepress/internal/database"
	"recipepress/internal/handlers"
	"recipepress/internal/middleware"
	"recipepress/internal/notify"
	"recipepress/internal/router"
	"recipepress/internal/service"
	"recipepress/internal/storage"
	"recipepress/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger. JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey when configured. The server runs fine without
	// it; public item reads just skip the cache.
	var itemCache *cache.ItemCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, 0)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		itemCache = cache.NewItemCache(valkeyClient, cache.DefaultItemTTL)
		slog.Info("valkey connected", "host", cfg.ValkeyHost)
	} else {
		slog.Warn("valkey not configured, item cache disabled")
	}

	// Select the storage backend: S3-compatible object storage when an
	// endpoint is configured, the local filesystem otherwise.
	var files storage.Store
	uploadsDir := ""
	if cfg.UseS3() {
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize s3 storage", "error", err)
			os.Exit(1)
		}
		files = s3
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		fs, err := storage.NewFS(cfg.UploadRoot, cfg.BaseURL)
		if err != nil {
			slog.Error("failed to initialize filesystem storage", "error", err)
			os.Exit(1)
		}
		files = fs
		uploadsDir = cfg.UploadRoot
		slog.Info("filesystem storage ready", "root", cfg.UploadRoot)
	}

	// Optional override for the default item body template.
	itemTemplate := ""
	if cfg.ItemTemplatePath != "" {
		data, err := os.ReadFile(cfg.ItemTemplatePath)
		if err != nil {
			slog.Error("failed to read item template", "path", cfg.ItemTemplatePath, "error", err)
			os.Exit(1)
		}
		itemTemplate = string(data)
		slog.Info("item content template loaded", "path", cfg.ItemTemplatePath)
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	itemStore := store.NewItemStore(db)
	userStore := store.NewUserStore(db)

	// Build the write pipelines.
	categorySvc := service.NewCategoryService(categoryStore, files)
	itemSvc := service.NewItemService(itemStore, categoryStore, files, itemTemplate)
	if itemCache != nil {
		categorySvc.SetCache(itemCache)
		itemSvc.SetCache(itemCache)
	}

	// Publish notifications go out through SES. Without an identity ARN
	// the notifier stays constructed but skips every send.
	sesNotifier, err := notify.NewSES(context.Background(), userStore, notify.Options{
		BaseURL:     cfg.BaseURL,
		IdentityARN: cfg.SESIdentityARN,
		Source:      cfg.SESSource,
		Template:    cfg.SESTemplate,
	})
	if err != nil {
		slog.Warn("publish notifications disabled", "error", err)
	} else {
		itemSvc.SetNotifier(sesNotifier)
	}

	api := handlers.NewAPI(categoryStore, itemStore, categorySvc, itemSvc, files, itemCache)

	// Per-IP rate limiting on mutating routes.
	limiter := middleware.NewRateLimiter(60, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, limiter, uploadsDir)

	// Create the HTTP server with sensible timeouts. ReadTimeout must
	// accommodate image uploads up to 50 MB on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
