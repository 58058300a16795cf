package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"primarycat/internal/cache"
	"primarycat/internal/config"
	"primarycat/internal/database"
	"primarycat/internal/handlers"
	"primarycat/internal/middleware"
	"primarycat/internal/models"
	"primarycat/internal/nonce"
	"primarycat/internal/primary"
	"primarycat/internal/render"
	"primarycat/internal/router"
	"primarycat/internal/session"
	"primarycat/internal/store"
	"primarycat/internal/taxonomy"
)

// runServe wires every dependency and serves until SIGINT or SIGTERM.
func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkeyClient.Close()

	// Outside development, cookies are Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, cfg.SessionTTL, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	service := primary.New(store.Host(db),
		nonce.New(cfg.NonceSecret, cfg.NonceLifetime),
		primary.WithContentTypes(cfg.ContentTypes()...),
		primary.WithUncategorizedSlug(cfg.UncategorizedSlug),
		primary.WithPermalink(permalink(cfg.SiteURL)),
	)

	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)

	adminHandlers := handlers.NewAdmin(renderer, contentStore, categoryStore, store.NewTermStore(db), registry, service, pageCache)
	authHandlers := handlers.NewAuth(renderer, sessionStore, store.NewUserStore(db))
	publicHandlers := handlers.NewPublic(renderer, contentStore, categoryStore, service, pageCache)

	// Five login attempts per minute per client IP.
	loginLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, router.Options{
		SecureCookies: secureCookies,
		LoginLimiter:  loginLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newRegistry declares the category and primary_category classifications.
func newRegistry(cfg *config.Config) (*taxonomy.Registry, error) {
	registry := taxonomy.NewRegistry()
	if err := registry.Register(taxonomy.Definition{
		Name:             models.TaxonomyCategory,
		Label:            "Categories",
		Hierarchical:     true,
		ManageCapability: primary.Scheme.ManageCapability,
		AdminColumn:      true,
		ObjectTypes:      []models.ContentType{models.ContentTypePost},
	}); err != nil {
		return nil, err
	}

	scheme := primary.Scheme
	scheme.ObjectTypes = cfg.ContentTypes()
	if err := registry.Register(scheme); err != nil {
		return nil, err
	}
	return registry, nil
}

// permalink builds absolute listing links from the site URL.
func permalink(siteURL string) func(models.Content) string {
	base := strings.TrimRight(siteURL, "/")
	return func(c models.Content) string {
		return base + "/" + c.Slug
	}
}
