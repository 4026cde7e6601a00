package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/Veraticus/spicecat/internal/common"
	"github.com/Veraticus/spicecat/internal/config"
	"github.com/Veraticus/spicecat/internal/service"
	"github.com/Veraticus/spicecat/internal/storage"
	"github.com/Veraticus/spicecat/internal/suggest"
	"github.com/spf13/viper"
)

// app bundles what most commands need: settings, storage and a loaded engine.
type app struct {
	cfg     *config.Config
	store   service.Storage
	catalog *catalog.Catalog
	engine  *suggest.Engine
}

// loadConfig resolves the configuration from viper.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("configuration is invalid", err)
	}
	return cfg, nil
}

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		if errors.Is(err, common.ErrDatabaseCorrupted) {
			return nil, common.NewUserError(fmt.Sprintf("database %s is corrupted", cfg.DatabasePath), err)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadCatalog returns the configured catalog, or the embedded default when no path is set.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot use catalog %s", cfg.CatalogPath), err)
	}
	return cat, nil
}

// openApp loads config, storage, catalog and engine. Callers must call close.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	engine, err := suggest.Open(ctx, cat, store, categories,
		suggest.WithLogger(slog.Default()),
		suggest.WithMiscellaneousName(cfg.Miscellaneous),
		suggest.WithSuggestionLimit(cfg.Limit),
		suggest.WithBlobKey(cfg.BlobKey),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	slog.Debug("engine ready",
		"catalog_categories", cat.Len(),
		"registered_categories", len(categories),
		"database", cfg.DatabasePath)

	return &app{cfg: cfg, store: store, catalog: cat, engine: engine}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}
