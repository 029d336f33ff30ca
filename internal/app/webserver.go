package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
)

// nodeSummary is one item of the GET /api/nodes response.
type nodeSummary struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
}

// router builds the inspection API. Field reads and writes funnel through
// session.Mount, so the HTTP surface obeys the same editing contract as
// every other caller.
func (a *App) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", a.healthHandler).Methods("GET")
	r.HandleFunc("/api/nodes", a.listNodesHandler).Methods("GET")
	r.HandleFunc("/api/nodes/{node}/fields/{field}", a.getFieldHandler).Methods("GET")
	r.HandleFunc("/api/nodes/{node}/fields/{field}", a.putFieldHandler).Methods("PUT")
	return r
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) listNodesHandler(w http.ResponseWriter, r *http.Request) {
	nodes := a.session.Canvas().Nodes()
	out := make([]nodeSummary, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeSummary{ID: n.ID, Type: n.Type, Fields: n.FieldNames()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// fieldWidget mounts the widget named by the route, or writes a 404.
func (a *App) fieldWidget(w http.ResponseWriter, r *http.Request) (*editor.Widget, context.Context, bool) {
	ctx := ctxlog.WithLogger(r.Context(), a.logger)
	vars := mux.Vars(r)
	ref := fieldref.New(vars["node"], vars["field"])

	widget, err := a.session.Mount(ctx, ref)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, nil, false
	}
	return widget, ctx, true
}

func (a *App) getFieldHandler(w http.ResponseWriter, r *http.Request) {
	widget, ctx, ok := a.fieldWidget(w, r)
	if !ok {
		return
	}

	view, err := widget.View(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (a *App) putFieldHandler(w http.ResponseWriter, r *http.Request) {
	widget, ctx, ok := a.fieldWidget(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if err := widget.InputFrom(ctx, body, fieldstore.OriginAPI); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// Respond with the updated view so clients see what actually landed
	// after normalization.
	view, err := widget.View(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// startWebServer runs the inspection API server in a goroutine.
func (a *App) startWebServer() {
	addr := fmt.Sprintf(":%d", a.config.HTTPPort)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: a.router(),
	}

	go func() {
		a.logger.Info("🩺 Inspection server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Inspection server failed unexpectedly", "error", err)
		}
	}()
}
