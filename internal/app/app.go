package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/model"
	"github.com/specialistvlad/nodecanvas/internal/remote"
	"github.com/specialistvlad/nodecanvas/internal/session"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	catalog  *model.Catalog
	dispatch *editor.Dispatcher
	session  *session.Session

	httpServer *http.Server
	bridge     *remote.Bridge
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, a loaded
// node type catalog, and a validated editor dispatcher.
func NewApp(outW io.Writer, cfg *Config, modules ...editor.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// A failure to load manifests is a fatal startup error.
	catalog, err := model.LoadCatalog(ctx, cfg.ManifestsPath)
	if err != nil {
		panic(fmt.Errorf("failed to load node manifests: %w", err))
	}
	logger.Debug("Node type catalog loaded.", "types", catalog.Len())

	dispatch := editor.NewDispatcher()
	if len(modules) == 0 {
		modules = coreEditors
	}
	for _, mod := range modules {
		mod.Register(dispatch)
	}
	logger.Debug("All editor modules registered.", "count", len(modules))

	// A kind with no editor is a programmer error (mismatch between the
	// kind set and the compiled-in editors), so we panic.
	if err := dispatch.Validate(); err != nil {
		panic(err)
	}
	logger.Debug("Dispatcher validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		catalog:  catalog,
		dispatch: dispatch,
		session:  session.New(catalog, dispatch),
	}
}

// Catalog returns the loaded node type catalog. This is primarily for testing.
func (a *App) Catalog() *model.Catalog {
	return a.catalog
}

// Session returns the app's editing session. This is primarily for testing.
func (a *App) Session() *session.Session {
	return a.session
}

// Close shuts down the app's long-lived parts: the inspection server, the
// event bridge, and the session.
func (a *App) Close(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.bridge != nil {
		a.bridge.Close()
		a.bridge = nil
	}
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		a.logger.Info("🩺 Shutting down inspection server...")
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Inspection server shutdown failed", "error", err)
			return err
		}
		a.httpServer = nil
	}
	return a.session.Close(ctx)
}
