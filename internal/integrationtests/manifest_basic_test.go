package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/nodecanvas/internal/fieldkind"
	"github.com/specialistvlad/nodecanvas/internal/model"
	"github.com/specialistvlad/nodecanvas/internal/testutil"
)

func TestManifestParsing_Success(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		hcl      string
		validate func(t *testing.T, nt *model.NodeType)
	}{
		{
			name: "full definition with description and constraints",
			hcl: `
			node "test" {
				description = "A test node with a description."

				field "width" {
					type        = integer
					description = "The width in pixels."
					default     = 512
					min         = 64
					max         = 2048
					multiple_of = 8
				}
			}
			`,
			validate: func(t *testing.T, nt *model.NodeType) {
				require.Equal(t, "A test node with a description.", nt.Description)

				tpl, err := nt.Field("width")
				require.NoError(t, err)
				require.Equal(t, fieldkind.Integer, tpl.Kind)
				require.Equal(t, "The width in pixels.", tpl.Description)
				require.Equal(t, int64(512), tpl.Default.AsInt())
				require.NotNil(t, tpl.Number)
				require.Equal(t, float64(64), *tpl.Number.Min)
				require.Equal(t, float64(2048), *tpl.Number.Max)
				require.Equal(t, int64(8), *tpl.Number.MultipleOf)
			},
		},
		{
			name: "minimal definition without description",
			hcl: `
			node "test" {
				field "enabled" {
					type = boolean
				}
			}
			`,
			validate: func(t *testing.T, nt *model.NodeType) {
				require.Empty(t, nt.Description, "Description should be the zero value")

				tpl, err := nt.Field("enabled")
				require.NoError(t, err)
				require.Equal(t, fieldkind.Boolean, tpl.Kind)
				require.False(t, tpl.Default.True(), "an omitted boolean default should be false")
			},
		},
		{
			name: "fields keep declaration order",
			hcl: `
			node "test" {
				field "b" { type = string }

				field "a" { type = string }

				field "c" { type = string }
			}
			`,
			validate: func(t *testing.T, nt *model.NodeType) {
				require.Equal(t, []string{"b", "a", "c"}, nt.FieldOrder)
			},
		},
		{
			name: "color default from an object literal",
			hcl: `
			node "test" {
				field "tint" {
					type    = color
					default = { r = 255, g = 128, b = 0, a = 0.5 }
				}
			}
			`,
			validate: func(t *testing.T, nt *model.NodeType) {
				tpl, err := nt.Field("tint")
				require.NoError(t, err)
				c := tpl.Default.AsColor()
				require.Equal(t, 255, c.R)
				require.Equal(t, 128, c.G)
				require.Equal(t, 0, c.B)
				require.Equal(t, 0.5, c.A)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			nodeType, err := testutil.RunManifestParsingTest(t, tc.hcl)
			require.NoError(t, err)
			tc.validate(t, nodeType)
		})
	}
}

func TestManifestParsing_Failure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		hcl         string
		errContains string
	}{
		{
			name: "missing type attribute",
			hcl: `
			node "test" {
				field "radius" {
					default = 8
				}
			}
			`,
			errContains: "Missing 'type' attribute",
		},
		{
			name: "unknown attribute",
			hcl: `
			node "test" {
				author = "test"
			}
			`,
			errContains: "Unsupported argument",
		},
		{
			name: "unknown nested block",
			hcl: `
			node "test" {
				metadata {}
			}
			`,
			errContains: "Unsupported block type",
		},
		{
			name: "enum without choices",
			hcl: `
			node "test" {
				field "mode" {
					type = enum
				}
			}
			`,
			errContains: "Missing 'choices' attribute",
		},
		{
			name: "choices on a non-enum field",
			hcl: `
			node "test" {
				field "radius" {
					type    = float
					choices = ["a", "b"]
				}
			}
			`,
			errContains: "Invalid 'choices' attribute",
		},
		{
			name: "default outside declared bounds",
			hcl: `
			node "test" {
				field "radius" {
					type    = float
					default = -1
					min     = 0
				}
			}
			`,
			errContains: "Default violates field constraints",
		},
		{
			name: "min greater than max",
			hcl: `
			node "test" {
				field "width" {
					type = integer
					min  = 100
					max  = 10
				}
			}
			`,
			errContains: "Impossible bounds",
		},
		{
			name: "duplicate field name",
			hcl: `
			node "test" {
				field "radius" { type = float }

				field "radius" { type = float }
			}
			`,
			errContains: "Duplicate field definition",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := testutil.RunManifestParsingTest(t, tc.hcl)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errContains)
		})
	}
}
