// Package app wires the library, cache and providers into one context that
// commands pass around instead of using globals.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdulachik/gutenshelf/internal/analysis"
	"github.com/abdulachik/gutenshelf/internal/cache"
	"github.com/abdulachik/gutenshelf/internal/catalog"
	"github.com/abdulachik/gutenshelf/internal/config"
	"github.com/abdulachik/gutenshelf/internal/db"
	"github.com/abdulachik/gutenshelf/internal/library"
	"github.com/abdulachik/gutenshelf/internal/vectorstore"
)

// App is the main application container holding all dependencies.
type App struct {
	Config  *config.Config
	Store   *db.Store
	Cache   *cache.Cache
	Library *library.Library
	// Analyzer is nil when no provider key is configured.
	Analyzer *analysis.Analyzer
	// Books is nil when VECLITE_PATH is empty or the index failed to open.
	Books *vectorstore.BookStore
}

// New opens the store, runs migrations, loads the books index and builds
// the providers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a := &App{
		Config: cfg,
		Store:  store,
		Cache:  cache.New(store),
	}

	var indexer library.Indexer
	if cfg.VecLitePath != "" {
		books, err := vectorstore.New(vectorstore.Config{Path: cfg.VecLitePath})
		if err != nil {
			slog.Warn("search index unavailable", "path", cfg.VecLitePath, "error", err)
		} else {
			a.Books = books
			indexer = books
		}
	}

	a.Library = library.New(library.Config{
		Source: catalog.New(catalog.Config{
			CatalogBaseURL: cfg.CatalogBaseURL,
			ContentBaseURL: cfg.ContentBaseURL,
			RPS:            cfg.CatalogRPS,
			Timeout:        cfg.HTTPTimeout,
		}),
		Store:   a.Cache,
		Indexer: indexer,
	})
	a.Library.Init(ctx)

	if cfg.AnalysisAPIKey != "" {
		a.Analyzer = analysis.New(analysis.NewClient(analysis.ClientConfig{
			APIKey:  cfg.AnalysisAPIKey,
			BaseURL: cfg.AnalysisBaseURL,
			Model:   cfg.AnalysisModel,
		}))
	}

	return a, nil
}

// Close closes all resources.
func (a *App) Close() error {
	var errs []error
	if a.Books != nil {
		errs = append(errs, a.Books.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
