// Package remote bridges a session to the backend event bus over
// socket.io. Inbound field updates take the same editor path as local
// input, and every locally applied change is mirrored back out, so a
// canvas stays in step with collaborators without a second write path.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/nodecanvas/internal/canvas"
	"github.com/specialistvlad/nodecanvas/internal/ctxlog"
	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
)

const (
	// inboundEvent carries {node, field, value} updates from collaborators.
	inboundEvent = "field_update"
	// outboundEvent carries {node, field, value, seq} for applied changes.
	outboundEvent = "field_changed"
)

// Config locates the backend event bus.
type Config struct {
	URL       string
	Namespace string

	// ConnectTimeout bounds the initial handshake. Zero means 15 seconds.
	ConnectTimeout time.Duration
}

// Bridge is a live two-way link between one session and the event bus.
type Bridge struct {
	canvas   *canvas.Canvas
	store    fieldstore.Store
	dispatch *editor.Dispatcher
	logger   *slog.Logger

	emit func(event string, payload map[string]any)

	io          *socket.Socket
	unsubscribe func()
	closeOnce   sync.Once
}

// Connect dials the event bus and wires both directions. The returned
// bridge keeps forwarding until Close.
func Connect(ctx context.Context, cfg Config, cv *canvas.Canvas, store fieldstore.Store, dispatch *editor.Dispatcher) (*Bridge, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL, "namespace", cfg.Namespace)
	logger.Info("Connecting to event bus...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event bus URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to event bus", "sid", io.Id())
		connectChan <- nil
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errs[0].(error)
		connectChan <- err
	})

	io.Connect()

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("event bus connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for event bus connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for event bus connection", timeout)
	}

	b := newBridge(logger, cv, store, dispatch, func(event string, payload map[string]any) {
		io.Emit(event, payload)
	})
	b.io = io

	io.On(types.EventName(inboundEvent), func(data ...any) {
		b.handleFieldUpdate(data...)
	})
	b.unsubscribe = store.Subscribe(b.forward)

	return b, nil
}

// newBridge wires the routable parts. Connect attaches the transport;
// tests drive the handlers directly.
func newBridge(logger *slog.Logger, cv *canvas.Canvas, store fieldstore.Store, dispatch *editor.Dispatcher, emit func(event string, payload map[string]any)) *Bridge {
	return &Bridge{
		canvas:   cv,
		store:    store,
		dispatch: dispatch,
		logger:   logger,
		emit:     emit,
	}
}

// handleFieldUpdate applies one inbound update. Bad events are logged
// and dropped; one broken producer must not take the bridge down.
func (b *Bridge) handleFieldUpdate(data ...any) {
	if len(data) == 0 {
		b.logger.Warn("Dropping field_update event with no payload.")
		return
	}
	if err := b.applyUpdate(data[0]); err != nil {
		b.logger.Warn("Dropping unusable field_update event.", "error", err)
	}
}

// applyUpdate routes an inbound payload through the field's editor and
// applies it with origin "remote", the same normalization any local
// input gets.
func (b *Bridge) applyUpdate(payload any) error {
	m, ok := payload.(map[string]any)
	if !ok {
		return fmt.Errorf("payload is %T, want an object", payload)
	}
	node, _ := m["node"].(string)
	field, _ := m["field"].(string)
	if node == "" || field == "" {
		return fmt.Errorf("payload is missing node or field")
	}

	raw, err := json.Marshal(m["value"])
	if err != nil {
		return fmt.Errorf("re-encoding value: %w", err)
	}

	ctx := ctxlog.WithLogger(context.Background(), b.logger)
	ref := fieldref.New(node, field)

	tpl, err := b.canvas.Lookup(ctx, ref)
	if err != nil {
		return err
	}
	widget, err := b.dispatch.Mount(ref, tpl, b.store)
	if err != nil {
		return err
	}
	return widget.InputFrom(ctx, raw, fieldstore.OriginRemote)
}

// forward mirrors one applied store event onto the bus. Events that came
// from the bus are suppressed so collaborators never see their own
// updates echoed back.
func (b *Bridge) forward(ev fieldstore.Event) {
	if ev.Origin == fieldstore.OriginRemote {
		return
	}

	raw, err := json.Marshal(ev.Value)
	if err != nil {
		b.logger.Error("Failed to encode outbound field event.", "ref", ev.Ref.String(), "error", err)
		return
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		b.logger.Error("Failed to decode outbound field event.", "ref", ev.Ref.String(), "error", err)
		return
	}

	b.emit(outboundEvent, map[string]any{
		"node":  ev.Ref.Node,
		"field": ev.Ref.Field,
		"value": plain,
		"seq":   ev.Seq,
	})
}

// Close unhooks the store subscription and disconnects from the bus.
// In-flight editor gestures that never reached Apply simply never
// produce events.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		if b.unsubscribe != nil {
			b.unsubscribe()
		}
		if b.io != nil {
			b.logger.Info("Disconnecting from event bus", "sid", b.io.Id())
			b.io.Disconnect()
		}
	})
}
