package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/reqgraph/internal/config"
	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/source"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	appConfig  *Config
	config     *config.Model
	provider   source.Provider
	httpServer *http.Server
}

// Option customizes an App at construction time.
type Option func(*App)

// WithProvider replaces the provider selected by the configuration's source
// block. Used by tests to harvest from memory.
func WithProvider(p source.Provider) Option {
	return func(a *App) { a.provider = p }
}

// NewApp is the constructor for the main application. It loads and validates
// the harvest configuration and applies the CLI overrides on top of it.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Workers > 0 {
		model.Harvest.Workers = appConfig.Workers
	}
	if appConfig.OutputDir != "" {
		model.Output.Directory = appConfig.OutputDir
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and translated into unified model.", "source", model.Source.Kind)

	a := &App{
		outW:      outW,
		logger:    logger,
		appConfig: appConfig,
		config:    model,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Config returns the effective harvest configuration. This is primarily for testing.
func (a *App) Config() *config.Model {
	return a.config
}
