package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Boo15mario/linutil-gui/internal/catalog"
	"github.com/Boo15mario/linutil-gui/internal/config"
	"github.com/Boo15mario/linutil-gui/internal/infrastructure/monitoring"
	"github.com/Boo15mario/linutil-gui/internal/infrastructure/server"
	"github.com/Boo15mario/linutil-gui/internal/logging"
	"github.com/Boo15mario/linutil-gui/internal/providers/terminal"
	"github.com/Boo15mario/linutil-gui/internal/service"
)

const closeTimeout = 5 * time.Second

// app wires configuration, logging, metrics and the session manager
type app struct {
	opts     *rootOptions
	cfg      *config.Config
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	manager  *terminal.Manager
	registry *service.Registry
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(loggingConfig(cfg, opts.verbose))
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics()
	manager := terminal.NewManager(terminal.Options{
		Shell:        cfg.Runner.Shell,
		Rows:         cfg.Runner.Rows,
		Cols:         cfg.Runner.Cols,
		ChunkSize:    cfg.Runner.ChunkSize,
		DrainTimeout: cfg.Runner.DrainTimeout,
		Exporter:     terminal.NewExporter(cfg.Export.Dir),
		Logger:       logger,
		Metrics:      metrics,
	})

	registry := service.NewRegistry()
	if err := registry.Register(terminal.NewProvider(manager)); err != nil {
		return nil, err
	}

	return &app{
		opts:     opts,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		manager:  manager,
		registry: registry,
	}, nil
}

// loggingConfig keeps the console quiet unless asked otherwise. -v turns
// on debug output in the human-readable development format.
func loggingConfig(cfg *config.Config, verbose bool) logging.Config {
	lc := logging.Config{
		Level:       "warn",
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	}
	if _, set := os.LookupEnv("LOG_LEVEL"); set {
		lc.Level = cfg.Logging.Level
	}
	if verbose {
		lc.Level = "debug"
		lc.Development = true
	}
	return lc
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := a.manager.CloseAll(ctx); err != nil {
		a.logger.Warn("Failed to close sessions", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) catalogDir() string {
	if a.opts.catalogDir != "" {
		return a.opts.catalogDir
	}
	return a.cfg.Catalog.Dir
}

// loadCatalog loads the catalog, logging entries dropped by validation.
func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := catalog.LoadDir(ctx, a.catalogDir(), catalog.LoadOptions{
		SkipValidation: a.opts.overrideValidation || a.cfg.Catalog.SkipValidation,
		Logger:         a.logger,
	})
	if cat == nil {
		return nil, err
	}
	if err != nil {
		a.logger.Warn("Some catalog entries were skipped", zap.Error(err))
	}
	return cat, nil
}

func (a *app) userConfig() (*catalog.UserConfig, error) {
	path := a.opts.configPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return &catalog.UserConfig{}, nil
		}
		path = filepath.Join(dir, "linutil", "config.toml")
	}
	return catalog.LoadUserConfig(path)
}

// serveStatus runs the status server until ctx ends when an address is configured.
func (a *app) serveStatus(ctx context.Context) {
	addr := a.cfg.Metrics.Addr
	if addr == "" {
		return
	}

	srv := server.New(a.manager, a.registry, a.metrics, a.logger)
	go func() {
		if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("Status server stopped", zap.Error(err))
		}
	}()
}
