package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/remote"
	"github.com/specialistvlad/nodecanvas/internal/session"
	"github.com/specialistvlad/nodecanvas/internal/workflow"
)

// Run executes the main application lifecycle: start the serving surfaces
// if configured, run the batch phases in order (import, scripted updates,
// export), then either return or keep serving until the context is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HTTPPort > 0 {
		a.startWebServer()
	}

	if a.config.EventBusURL != "" {
		cfg := remote.Config{
			URL:       a.config.EventBusURL,
			Namespace: a.config.EventBusNamespace,
		}
		bridge, err := remote.Connect(ctx, cfg, a.session.Canvas(), a.session.Store(), a.dispatch)
		if err != nil {
			return fmt.Errorf("failed to connect event bridge: %w", err)
		}
		a.bridge = bridge
	}

	if err := a.runBatch(ctx); err != nil {
		return err
	}

	if a.config.Serves() {
		a.logger.Info("🎨 Editing session is live.", "session", a.session.ID())
		<-ctx.Done()
		return a.Close(context.Background())
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// runBatch performs the one-shot phases of a run.
func (a *App) runBatch(ctx context.Context) error {
	if a.config.WorkflowPath != "" {
		doc, err := workflow.Load(ctx, a.config.WorkflowPath)
		if err != nil {
			return fmt.Errorf("failed to load workflow: %w", err)
		}
		if err := a.session.Import(ctx, doc); err != nil {
			return fmt.Errorf("failed to import workflow: %w", err)
		}
		a.logger.Info("🎨 Workflow imported.", "name", doc.Name, "nodes", len(doc.Nodes))
	}

	if a.config.UpdatesPath != "" {
		data, err := os.ReadFile(a.config.UpdatesPath)
		if err != nil {
			return fmt.Errorf("failed to read updates file: %w", err)
		}
		updates, err := session.ParseUpdates(ctx, data)
		if err != nil {
			return err
		}
		if err := a.session.ApplyUpdates(ctx, updates); err != nil {
			return fmt.Errorf("scripted updates failed: %w", err)
		}
		a.logger.Info("✏️ Scripted updates applied.", "count", len(updates))
	}

	if a.config.ExportPath != "" {
		doc, err := a.session.Export(ctx)
		if err != nil {
			return fmt.Errorf("failed to export session: %w", err)
		}
		if err := workflow.Save(a.config.ExportPath, doc); err != nil {
			return fmt.Errorf("failed to save workflow: %w", err)
		}
		a.logger.Info("🏁 Workflow exported.", "path", a.config.ExportPath, "nodes", len(doc.Nodes))
	}

	return nil
}
