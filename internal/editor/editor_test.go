package editor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldref"
	"github.com/specialistvlad/nodecanvas/internal/fieldstore"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/inmemorystore"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

// fakeEditor implements the Editor contract for one kind with the
// standard decode-then-clamp behavior.
type fakeEditor struct {
	kind fieldkind.Kind
}

func (f fakeEditor) Kind() fieldkind.Kind { return f.kind }

func (f fakeEditor) View(val fieldval.Value, tpl *model.Template) (View, error) {
	return View{Control: "fake", Value: tpl.Clamp(val)}, nil
}

func (f fakeEditor) Change(raw json.RawMessage, tpl *model.Template) (fieldval.Value, error) {
	v, err := fieldval.Decode(tpl.Kind, raw)
	if err != nil {
		return fieldval.Value{}, err
	}
	return tpl.Clamp(v), nil
}

func floatPtr(f float64) *float64 { return &f }

func radiusTemplate() *model.Template {
	return &model.Template{
		Name:    "radius",
		Kind:    fieldkind.Float,
		Default: fieldval.FloatVal(8),
		Number:  &model.NumberConstraints{Min: floatPtr(0), Max: floatPtr(100)},
	}
}

func TestDispatcherRegisterAndResolve(t *testing.T) {
	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})

	e, err := d.Resolve(fieldkind.Float)
	require.NoError(t, err)
	assert.Equal(t, fieldkind.Float, e.Kind())

	_, err = d.Resolve(fieldkind.Color)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
}

func TestDispatcherDuplicatePanics(t *testing.T) {
	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})
	assert.Panics(t, func() {
		d.Register(fakeEditor{kind: fieldkind.Float})
	})
}

func TestDispatcherValidate(t *testing.T) {
	d := NewDispatcher()
	for _, kind := range fieldkind.All() {
		d.Register(fakeEditor{kind: kind})
	}
	assert.NoError(t, d.Validate())
}

func TestDispatcherValidateReportsEveryGap(t *testing.T) {
	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})
	d.Register(fakeEditor{kind: fieldkind.Integer})

	err := d.Validate()
	require.Error(t, err)
	for _, kind := range []string{"boolean", "string", "enum", "color", "image"} {
		assert.Contains(t, err.Error(), kind)
	}
	assert.NotContains(t, err.Error(), "float,")
}

func TestMountAndView(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	ref := fieldref.New("blur_1", "radius")
	tpl := radiusTemplate()
	require.NoError(t, store.Seed(ctx, ref, tpl))

	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})

	w, err := d.Mount(ref, tpl, store)
	require.NoError(t, err)
	assert.Equal(t, ref, w.Ref())

	view, err := w.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fake", view.Control)
	assert.True(t, fieldval.FloatVal(8).Equal(view.Value))
}

func TestMountUnregisteredKind(t *testing.T) {
	d := NewDispatcher()
	store := inmemorystore.New()
	_, err := d.Mount(fieldref.New("n", "f"), radiusTemplate(), store)
	require.Error(t, err)
}

func TestWidgetInputDispatches(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	ref := fieldref.New("blur_1", "radius")
	tpl := radiusTemplate()
	require.NoError(t, store.Seed(ctx, ref, tpl))

	var origins []string
	cancel := store.Subscribe(func(e fieldstore.Event) { origins = append(origins, e.Origin) })
	defer cancel()

	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})
	w, err := d.Mount(ref, tpl, store)
	require.NoError(t, err)

	require.NoError(t, w.Input(ctx, json.RawMessage(`42.5`)))

	val, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.True(t, fieldval.FloatVal(42.5).Equal(val))
	assert.Equal(t, []string{fieldstore.OriginEditor}, origins)
}

func TestWidgetInputClampsOvershoot(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	ref := fieldref.New("blur_1", "radius")
	tpl := radiusTemplate()
	require.NoError(t, store.Seed(ctx, ref, tpl))

	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})
	w, _ := d.Mount(ref, tpl, store)

	require.NoError(t, w.Input(ctx, json.RawMessage(`250`)))

	val, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.True(t, fieldval.FloatVal(100).Equal(val), "overshoot must clamp to the max")
}

func TestWidgetInputBadShape(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	ref := fieldref.New("blur_1", "radius")
	tpl := radiusTemplate()
	require.NoError(t, store.Seed(ctx, ref, tpl))

	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})
	w, _ := d.Mount(ref, tpl, store)

	err := w.Input(ctx, json.RawMessage(`"not a number"`))
	require.Error(t, err)

	val, getErr := store.Get(ctx, ref)
	require.NoError(t, getErr)
	assert.True(t, fieldval.FloatVal(8).Equal(val), "bad input must leave the slot untouched")
}

func TestWidgetInputUnseededSlot(t *testing.T) {
	ctx := context.Background()
	store := inmemorystore.New()
	d := NewDispatcher()
	d.Register(fakeEditor{kind: fieldkind.Float})
	w, err := d.Mount(fieldref.New("ghost", "radius"), radiusTemplate(), store)
	require.NoError(t, err)

	err = w.Input(ctx, json.RawMessage(`5`))
	require.ErrorIs(t, err, fieldstore.ErrNotFound)
}

func TestViewMarshalsWithHints(t *testing.T) {
	tpl := radiusTemplate()
	view := View{
		Control: "slider",
		Value:   fieldval.FloatVal(8),
		Min:     tpl.Number.Min,
		Max:     tpl.Number.Max,
	}
	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"control":"slider","value":8,"min":0,"max":100}`, string(data))
}
