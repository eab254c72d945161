// Package cli is the platesync command line: it wires configuration, the
// store and the import pipeline behind a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/platesync/internal/config"
	"github.com/JonMunkholm/platesync/internal/core"
	"github.com/JonMunkholm/platesync/internal/sheet"
	"github.com/JonMunkholm/platesync/internal/store"
)

// App holds the long-lived collaborators shared by every command.
type App struct {
	cfg      *config.Config
	backend  store.Backend
	configs  *store.ConfigRepository
	records  *store.RecordRepository
	importer *core.Importer

	progress io.Writer // nil unless --progress was given
}

// NewApp opens the configured backend and builds the importer.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, err := store.Open(ctx, store.Settings{
		Kind:          cfg.Store.Backend,
		Dir:           cfg.Store.Dir,
		KeyPrefix:     cfg.Store.KeyPrefix,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
		DatabaseURL:   cfg.Store.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	return newApp(cfg, backend)
}

func newApp(cfg *config.Config, backend store.Backend) (*App, error) {
	var keywords core.Keywords
	if path := cfg.Import.KeywordsFile; path != "" {
		kw, err := core.LoadKeywordsFile(path)
		if err != nil {
			backend.Close()
			return nil, err
		}
		keywords = kw
		slog.Debug("keyword overrides loaded", "path", path, "fields", len(kw))
	}

	fetcher := sheet.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.RetryCount, cfg.Fetch.UserAgent, cfg.Import.MaxFileSize)
	resolver := sheet.NewResolver(fetcher, sheet.ResolverConfig{
		BaseURL:     cfg.Fetch.BaseURL,
		MaxFileSize: cfg.Import.MaxFileSize,
	})

	app := &App{
		cfg:     cfg,
		backend: backend,
		configs: store.NewConfigRepository(backend),
		records: store.NewRecordRepository(backend),
	}
	app.importer = core.NewImporter(resolver, app.configs, app.records, core.Options{
		VehicleSlots:   cfg.Import.VehicleSlots,
		HeaderScanRows: cfg.Import.HeaderScanRows,
		Keywords:       keywords,
		Progress:       app.reportProgress,
	})
	return app, nil
}

// Close waits for a running import to finish writing, then closes the store.
func (a *App) Close(ctx context.Context) error {
	if err := a.importer.Gate().WaitIdle(ctx); err != nil {
		slog.Warn("closing store with an import still running", "error", err)
	}
	return a.backend.Close()
}

func (a *App) reportProgress(p core.Progress) {
	if a.progress == nil {
		return
	}
	switch p.Phase {
	case core.PhaseDone:
		fmt.Fprintf(a.progress, "%-16s %d records, %d skipped\n", p.Phase, p.Records, p.Skipped)
	case core.PhaseFailed:
		fmt.Fprintf(a.progress, "%-16s %s\n", p.Phase, p.Error)
	default:
		fmt.Fprintf(a.progress, "%-16s %s\n", p.Phase, p.Source)
	}
}

// loadConfig reads the persisted import config.
func (a *App) loadConfig(ctx context.Context) (*core.ImportConfig, error) {
	cfg, err := a.configs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load config: %w", core.ErrStore, err)
	}
	return cfg, nil
}

// mutateConfig loads the import config, applies fn and saves the result.
func (a *App) mutateConfig(ctx context.Context, fn func(*core.ImportConfig) error) (*core.ImportConfig, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := a.configs.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: save config: %w", core.ErrStore, err)
	}
	return cfg, nil
}

// resetConfig removes the saved import config, so the next load starts from
// defaults. The stored value is not read, which lets reset recover a
// config that no longer decodes.
func (a *App) resetConfig(ctx context.Context) (*core.ImportConfig, error) {
	if err := a.configs.Delete(ctx); err != nil {
		return nil, fmt.Errorf("%w: reset config: %w", core.ErrStore, err)
	}
	cfg := new(core.ImportConfig)
	cfg.Reset()
	return cfg, nil
}
