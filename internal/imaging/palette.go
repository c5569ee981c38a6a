package imaging

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette returns n visually distinct colors, one per label.
//
// Hues are spaced evenly around the HSV wheel starting at red, with fixed
// saturation and value, so a label keeps its color as long as the label set
// does not change. Charts and overlays share this palette, which lets a
// reader match a pie wedge to the tinted region on the image.
func Palette(n int) []colorful.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]colorful.Color, n)
	for i := range colors {
		hue := float64(i) * 360 / float64(n)
		colors[i] = colorful.Hsv(hue, 0.65, 0.9)
	}
	return colors
}

// HexPalette is Palette rendered as "#rrggbb" strings.
func HexPalette(n int) []string {
	colors := Palette(n)
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}
