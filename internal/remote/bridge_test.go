package remote

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/editors/choice"
	"github.com/specialistvlad/nodecanvas/editors/color"
	"github.com/specialistvlad/nodecanvas/editors/image"
	"github.com/specialistvlad/nodecanvas/editors/number"
	"github.com/specialistvlad/nodecanvas/editors/text"
	"github.com/specialistvlad/nodecanvas/editors/toggle"
	"github.com/specialistvlad/nodecanvas/internal/canvas"
	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/inmemorystore"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

const testManifest = `
node "blank_image" {
  field "width" {
    type        = integer
    default     = 512
    min         = 64
    max         = 2048
    multiple_of = 8
  }

  field "color" {
    type    = color
    default = { r = 0, g = 0, b = 0, a = 1 }
  }
}
`

type emitted struct {
	event   string
	payload map[string]any
}

func newTestDispatcher() *editor.Dispatcher {
	d := editor.NewDispatcher()
	modules := []editor.Module{
		&number.Module{},
		&toggle.Module{},
		&text.Module{},
		&choice.Module{},
		&color.Module{},
		&image.Module{},
	}
	for _, m := range modules {
		m.Register(d)
	}
	return d
}

func newTestBridge(t *testing.T) (*Bridge, fieldstore.Store, *[]emitted) {
	t.Helper()

	catalog, err := model.ParseCatalogSource("test.hcl", []byte(testManifest))
	require.NoError(t, err)
	store := inmemorystore.New()
	cv := canvas.New(catalog, store)
	_, err = cv.AddNode(context.Background(), "blank_image", "bg")
	require.NoError(t, err)

	var events []emitted
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := newBridge(logger, cv, store, newTestDispatcher(), func(event string, payload map[string]any) {
		events = append(events, emitted{event: event, payload: payload})
	})
	b.unsubscribe = store.Subscribe(b.forward)
	t.Cleanup(b.Close)

	return b, store, &events
}

func TestInboundUpdateAppliesWithRemoteOrigin(t *testing.T) {
	ctx := context.Background()
	b, store, events := newTestBridge(t)

	b.handleFieldUpdate(map[string]any{"node": "bg", "field": "width", "value": float64(640)})

	val, err := store.Get(ctx, fieldref.New("bg", "width"))
	require.NoError(t, err)
	assert.Equal(t, int64(640), val.AsInt())
	assert.Empty(t, *events, "bus-originated updates are not echoed back")
}

func TestInboundUpdateClampsLikeLocalInput(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBridge(t)

	b.handleFieldUpdate(map[string]any{"node": "bg", "field": "width", "value": float64(100000)})

	val, err := store.Get(ctx, fieldref.New("bg", "width"))
	require.NoError(t, err)
	assert.Equal(t, int64(2048), val.AsInt())
}

func TestInboundColorUpdate(t *testing.T) {
	ctx := context.Background()
	b, store, _ := newTestBridge(t)

	b.handleFieldUpdate(map[string]any{
		"node":  "bg",
		"field": "color",
		"value": map[string]any{"r": float64(300), "g": float64(10), "b": float64(0), "a": float64(2)},
	})

	val, err := store.Get(ctx, fieldref.New("bg", "color"))
	require.NoError(t, err)
	assert.Equal(t, fieldval.Color{R: 255, G: 10, B: 0, A: 1}, val.AsColor())
}

func TestInboundBadEventsAreDropped(t *testing.T) {
	ctx := context.Background()
	b, store, events := newTestBridge(t)

	payloads := []any{
		"junk",
		map[string]any{"node": "bg"},
		map[string]any{"node": "ghost", "field": "width", "value": float64(640)},
		map[string]any{"node": "bg", "field": "dpi", "value": float64(300)},
		map[string]any{"node": "bg", "field": "width", "value": "wide"},
	}
	for _, p := range payloads {
		b.handleFieldUpdate(p)
	}
	b.handleFieldUpdate()

	val, err := store.Get(ctx, fieldref.New("bg", "width"))
	require.NoError(t, err)
	assert.Equal(t, int64(512), val.AsInt(), "bad events leave the slot untouched")
	assert.Empty(t, *events)
}

func TestOutboundEmitsAppliedChanges(t *testing.T) {
	ctx := context.Background()
	_, store, events := newTestBridge(t)

	action := fieldstore.UpdateAction{
		Ref:    fieldref.New("bg", "width"),
		Value:  fieldval.IntVal(640),
		Origin: fieldstore.OriginEditor,
	}
	require.NoError(t, store.Apply(ctx, action))

	require.Len(t, *events, 1)
	ev := (*events)[0]
	assert.Equal(t, "field_changed", ev.event)
	assert.Equal(t, "bg", ev.payload["node"])
	assert.Equal(t, "width", ev.payload["field"])
	assert.Equal(t, float64(640), ev.payload["value"])
	assert.Equal(t, uint64(1), ev.payload["seq"])
}

func TestOutboundAfterSuppressedEcho(t *testing.T) {
	ctx := context.Background()
	b, store, events := newTestBridge(t)

	b.handleFieldUpdate(map[string]any{"node": "bg", "field": "width", "value": float64(640)})
	require.Empty(t, *events)

	action := fieldstore.UpdateAction{
		Ref:    fieldref.New("bg", "width"),
		Value:  fieldval.IntVal(720),
		Origin: fieldstore.OriginEditor,
	}
	require.NoError(t, store.Apply(ctx, action))
	require.Len(t, *events, 1, "local changes still emit after a suppressed echo")
	assert.Equal(t, float64(720), (*events)[0].payload["value"])
}
