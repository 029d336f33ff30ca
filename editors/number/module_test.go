package number

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/internal/editor"
	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/fieldval"
	"github.com/specialistvlad/nodecanvas/internal/model"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int64) *int64       { return &n }

func widthTemplate() *model.Template {
	return &model.Template{
		Name:    "width",
		Kind:    fieldkind.Integer,
		Default: fieldval.IntVal(512),
		Number:  &model.NumberConstraints{Min: floatPtr(64), Max: floatPtr(2048), MultipleOf: intPtr(8)},
	}
}

func scaleTemplate() *model.Template {
	return &model.Template{
		Name:    "scale_factor",
		Kind:    fieldkind.Float,
		Default: fieldval.FloatVal(2),
		Number:  &model.NumberConstraints{Min: floatPtr(0.1)},
	}
}

func TestRegisterCoversBothKinds(t *testing.T) {
	d := editor.NewDispatcher()
	(&Module{}).Register(d)

	_, err := d.Resolve(fieldkind.Integer)
	assert.NoError(t, err)
	_, err = d.Resolve(fieldkind.Float)
	assert.NoError(t, err)
}

func TestIntegerView(t *testing.T) {
	e := &IntegerEditor{}
	view, err := e.View(fieldval.IntVal(512), widthTemplate())
	require.NoError(t, err)

	assert.Equal(t, "slider", view.Control)
	assert.True(t, fieldval.IntVal(512).Equal(view.Value))
	require.NotNil(t, view.Min)
	assert.Equal(t, float64(64), *view.Min)
	require.NotNil(t, view.Step)
	assert.Equal(t, float64(8), *view.Step)
}

func TestIntegerViewClampsForDisplayOnly(t *testing.T) {
	e := &IntegerEditor{}
	// A stale out-of-range value renders clamped without being written back.
	view, err := e.View(fieldval.IntVal(7), widthTemplate())
	require.NoError(t, err)
	assert.True(t, fieldval.IntVal(64).Equal(view.Value))
}

func TestFloatViewUnboundedControl(t *testing.T) {
	e := &FloatEditor{}
	view, err := e.View(fieldval.FloatVal(2), scaleTemplate())
	require.NoError(t, err)
	assert.Equal(t, "number-input", view.Control, "one-sided bounds cannot drive a slider")
	assert.Nil(t, view.Step)
}

func TestIntegerChange(t *testing.T) {
	e := &IntegerEditor{}
	tpl := widthTemplate()

	cases := []struct {
		name     string
		raw      string
		expected int64
	}{
		{"plain integer", `512`, 512},
		{"fraction rounds", `513.6`, 512},
		{"overshoot clamps", `99999`, 2048},
		{"undershoot clamps", `1`, 64},
		{"snaps to grid", `70`, 72},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := e.Change(json.RawMessage(tc.raw), tpl)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, val.AsInt())
		})
	}
}

func TestIntegerChangeRejectsNonNumbers(t *testing.T) {
	e := &IntegerEditor{}
	_, err := e.Change(json.RawMessage(`"wide"`), widthTemplate())
	require.Error(t, err)
}

func TestFloatChange(t *testing.T) {
	e := &FloatEditor{}
	tpl := scaleTemplate()

	val, err := e.Change(json.RawMessage(`2.5`), tpl)
	require.NoError(t, err)
	assert.Equal(t, 2.5, val.AsFloat())

	val, err = e.Change(json.RawMessage(`0.001`), tpl)
	require.NoError(t, err)
	assert.Equal(t, 0.1, val.AsFloat(), "below-minimum input clamps up")

	_, err = e.Change(json.RawMessage(`true`), tpl)
	require.Error(t, err)
}
