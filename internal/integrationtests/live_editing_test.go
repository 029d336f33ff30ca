package integration_tests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/testutil"
)

// TestLiveEditing_WidgetsShareOneStore mounts two widgets over the same
// field slot and verifies that both render whatever the store last applied,
// regardless of which widget dispatched the edit.
func TestLiveEditing_WidgetsShareOneStore(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{"nodes/pipeline.hcl": pipelineManifest}
	result := testutil.RunIntegrationTest(t, files)
	require.NoError(t, result.Err)

	ctx := context.Background()
	sess := result.App.Session()
	_, err := sess.Canvas().AddNode(ctx, "blank_image", "bg")
	require.NoError(t, err)

	ref := fieldref.New("bg", "width")
	first, err := sess.Mount(ctx, ref)
	require.NoError(t, err)
	second, err := sess.Mount(ctx, ref)
	require.NoError(t, err)

	var events []fieldstore.Event
	cancel := sess.Store().Subscribe(func(ev fieldstore.Event) {
		events = append(events, ev)
	})
	defer cancel()

	// --- Act ---
	require.NoError(t, first.Input(ctx, json.RawMessage(`640`)))
	require.NoError(t, second.Input(ctx, json.RawMessage(`720`)))

	// --- Assert ---
	// Both widgets render the last applied value; neither holds state of
	// its own.
	firstView, err := first.View(ctx)
	require.NoError(t, err)
	secondView, err := second.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, firstView, secondView)
	assert.Equal(t, fieldval.IntVal(720), firstView.Value)

	// Events arrived in apply order with increasing sequence numbers.
	require.Len(t, events, 2)
	assert.Equal(t, fieldval.IntVal(640), events[0].Value)
	assert.Equal(t, fieldval.IntVal(720), events[1].Value)
	assert.Less(t, events[0].Seq, events[1].Seq)
}

// TestLiveEditing_RejectedInputChangesNothing verifies that input a field's
// editor cannot parse leaves the slot and its subscribers untouched.
func TestLiveEditing_RejectedInputChangesNothing(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{"nodes/pipeline.hcl": pipelineManifest}
	result := testutil.RunIntegrationTest(t, files)
	require.NoError(t, result.Err)

	ctx := context.Background()
	sess := result.App.Session()
	_, err := sess.Canvas().AddNode(ctx, "img_blur", "blur")
	require.NoError(t, err)

	widget, err := sess.Mount(ctx, fieldref.New("blur", "blur_type"))
	require.NoError(t, err)

	var notified int
	cancel := sess.Store().Subscribe(func(fieldstore.Event) { notified++ })
	defer cancel()

	// --- Act ---
	err = widget.Input(ctx, json.RawMessage(`42`))

	// --- Assert ---
	require.Error(t, err, "a non-string payload on an enum field must be rejected")
	assert.Zero(t, notified, "a rejected edit must not notify subscribers")

	view, err := widget.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, fieldval.EnumVal("gaussian"), view.Value, "the slot keeps its default after a rejected edit")
}

// TestLiveEditing_RemovedNodeUnbindsItsWidgets verifies that widgets over a
// removed node start failing instead of serving stale state.
func TestLiveEditing_RemovedNodeUnbindsItsWidgets(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{"nodes/pipeline.hcl": pipelineManifest}
	result := testutil.RunIntegrationTest(t, files)
	require.NoError(t, result.Err)

	ctx := context.Background()
	sess := result.App.Session()
	_, err := sess.Canvas().AddNode(ctx, "blank_image", "bg")
	require.NoError(t, err)

	widget, err := sess.Mount(ctx, fieldref.New("bg", "width"))
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, sess.Canvas().RemoveNode(ctx, "bg"))

	// --- Assert ---
	_, err = widget.View(ctx)
	require.ErrorIs(t, err, fieldstore.ErrNotFound)

	err = widget.Input(ctx, json.RawMessage(`640`))
	require.ErrorIs(t, err, fieldstore.ErrNotFound)
}
