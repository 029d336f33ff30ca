package fieldval

import "fmt"

// Color is an RGBA color. Red, green, and blue are integer channels in
// [0, 255]; alpha is a float in [0, 1]. The split matches the wire form
// used by color widgets and workflow documents.
type Color struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

// Clamp projects each channel into its legal range.
func (c Color) Clamp() Color {
	return Color{
		R: clampChannel(c.R),
		G: clampChannel(c.G),
		B: clampChannel(c.B),
		A: clampAlpha(c.A),
	}
}

// InRange reports whether every channel already sits inside its range.
func (c Color) InRange() bool {
	return c == c.Clamp()
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, trimFloat(c.A))
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clampAlpha(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
