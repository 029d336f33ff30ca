package fieldref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Ref
	}{
		{
			name:     "simple name",
			raw:      "blur_1.radius",
			expected: Ref{Node: "blur_1", Field: "radius"},
		},
		{
			name:     "uuid node id",
			raw:      "3f1c9c0a-7c2d-4a58-9a2e-6f0d7a0c1b4e.color",
			expected: Ref{Node: "3f1c9c0a-7c2d-4a58-9a2e-6f0d7a0c1b4e", Field: "color"},
		},
		{
			name:     "underscore field",
			raw:      "resize.resample_mode",
			expected: Ref{Node: "resize", Field: "resample_mode"},
		},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - no separator", raw: "radius", expectErr: true},
		{name: "error - empty node", raw: ".radius", expectErr: true},
		{name: "error - empty field", raw: "blur.", expectErr: true},
		{name: "error - double dot", raw: "blur..radius", expectErr: true},
		{name: "error - extra segment", raw: "blur.radius.extra", expectErr: true},
		{name: "error - field starts with digit", raw: "blur.1radius", expectErr: true},
		{name: "error - hyphen in field", raw: "blur.blur-type", expectErr: true},
		{name: "error - space in node", raw: "my node.radius", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	ref := New("img_blur_1", "radius")
	parsed, err := Parse(ref.String())
	require.NoError(t, err)
	assert.True(t, ref.Equal(parsed))
}

func TestZero(t *testing.T) {
	assert.True(t, Ref{}.Zero())
	assert.False(t, New("a", "b").Zero())
}
