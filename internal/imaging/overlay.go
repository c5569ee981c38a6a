package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/heart-area-tools/internal/area"
)

// DefaultOpacity is the tint opacity the configuration starts from.
const DefaultOpacity = 0.4

// OverlayOptions controls RenderOverlay.
type OverlayOptions struct {
	// Opacity of the label tint, clamped to 0..1. Zero draws no tint, which
	// together with Outline leaves only the label boundaries.
	Opacity float64

	// Outline draws each label's boundary at full opacity.
	Outline bool

	// MaxSize limits the longest side of the result. Zero keeps the source size.
	MaxSize int
}

// OverlayResult is an overlay encoded for transport.
type OverlayResult struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Legend      []string `json:"legend"`
	ImageBase64 string   `json:"image_base64"`
	MimeType    string   `json:"mime_type"`
}

// RenderOverlay tints every label's mask over img using the shared palette.
//
// Masks must have the size of img. Labels with empty masks are skipped but
// keep their palette slot, so colors stay stable across images.
func RenderOverlay(img image.Image, masks []area.LabelMask, opts OverlayOptions) (image.Image, error) {
	base := imaging.Clone(img)
	bounds := base.Bounds()

	opacity := opts.Opacity
	if math.IsNaN(opacity) {
		opacity = 0
	}
	fillAlpha := uint8(math.Round(min(max(opacity, 0), 1) * 255))

	colors := Palette(len(masks))
	var out image.Image = base
	for i, lm := range masks {
		if lm.Mask.Bounds() != bounds {
			return nil, fmt.Errorf("mask for %q is %v, image is %v", lm.Label, lm.Mask.Bounds().Size(), bounds.Size())
		}
		if lm.Mask.Count() == 0 || (fillAlpha == 0 && !opts.Outline) {
			continue
		}

		var interior image.Image
		if opts.Outline {
			interior = effect.Erode(lm.Mask.Gray(), 1)
		}

		r, g, b := colors[i].RGB255()
		layer := image.NewNRGBA(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if !lm.Mask.IsFilled(x, y) {
					continue
				}
				a := fillAlpha
				if interior != nil && isBoundary(interior, x, y) {
					a = 0xff
				}
				if a == 0 {
					continue
				}
				layer.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
			}
		}
		out = blend.Normal(out, layer)
	}

	if opts.MaxSize > 0 {
		size := out.Bounds().Size()
		if size.X > opts.MaxSize || size.Y > opts.MaxSize {
			out = imaging.Fit(out, opts.MaxSize, opts.MaxSize, imaging.Lanczos)
		}
	}
	return out, nil
}

// isBoundary reports whether a filled mask pixel lost its fill under erosion.
func isBoundary(interior image.Image, x, y int) bool {
	r, _, _, _ := interior.At(x, y).RGBA()
	return r < 0x8000
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// EncodeOverlay renders an overlay and packs it as base64 PNG with its legend.
func EncodeOverlay(img image.Image, masks []area.LabelMask, opts OverlayOptions) (*OverlayResult, error) {
	out, err := RenderOverlay(img, masks, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, out); err != nil {
		return nil, err
	}

	hex := HexPalette(len(masks))
	legend := make([]string, len(masks))
	for i, lm := range masks {
		legend[i] = fmt.Sprintf("%s %s", hex[i], lm.Label)
	}

	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Legend:      legend,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
