package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ironsheep/heart-area-tools/internal/annotation"
	"github.com/ironsheep/heart-area-tools/internal/area"
)

func testMasks(t *testing.T, size image.Point, shapes ...annotation.Shape) []area.LabelMask {
	t.Helper()
	masks, err := area.AggregateMasks(context.Background(), &annotation.Document{Shapes: shapes}, size, []string{"Aorta", "RV Myocardium"})
	if err != nil {
		t.Fatalf("AggregateMasks failed: %v", err)
	}
	return masks
}

func TestPalette(t *testing.T) {
	if got := Palette(0); got != nil {
		t.Errorf("Palette(0): got %v, want nil", got)
	}

	hex := HexPalette(4)
	if len(hex) != 4 {
		t.Fatalf("HexPalette(4): got %d colors", len(hex))
	}
	seen := map[string]bool{}
	for _, h := range hex {
		if len(h) != 7 || !strings.HasPrefix(h, "#") {
			t.Errorf("bad hex color %q", h)
		}
		if seen[h] {
			t.Errorf("duplicate color %q", h)
		}
		seen[h] = true
	}

	// Deterministic across calls.
	if again := HexPalette(4); again[2] != hex[2] {
		t.Errorf("palette not stable: %s vs %s", again[2], hex[2])
	}
}

func TestRenderOverlay(t *testing.T) {
	src := createInMemoryImage(40, 40, color.RGBA{0, 0, 0, 255})
	masks := testMasks(t, image.Pt(40, 40), annotation.Shape{
		Label:  "Aorta",
		Points: [][2]float64{{10, 10}, {30, 10}, {30, 30}, {10, 30}},
	})

	out, err := RenderOverlay(src, masks, OverlayOptions{Opacity: DefaultOpacity, Outline: true})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if out.Bounds().Size() != image.Pt(40, 40) {
		t.Fatalf("unexpected size %v", out.Bounds().Size())
	}

	r, g, b, _ := out.At(2, 2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel outside every mask changed: %d,%d,%d", r>>8, g>>8, b>>8)
	}

	r, g, b, _ = out.At(20, 20).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("pixel inside the Aorta mask was not tinted")
	}

	// Source image is left untouched.
	if sr, _, _, _ := src.At(20, 20).RGBA(); sr != 0 {
		t.Error("RenderOverlay mutated its input")
	}
}

func TestRenderOverlay_ZeroOpacity(t *testing.T) {
	src := createInMemoryImage(40, 40, color.RGBA{0, 0, 0, 255})
	masks := testMasks(t, image.Pt(40, 40), annotation.Shape{
		Label:  "Aorta",
		Points: [][2]float64{{10, 10}, {30, 10}, {30, 30}, {10, 30}},
	})

	plain, err := RenderOverlay(src, masks, OverlayOptions{Opacity: 0})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if r, g, b, _ := plain.At(x, y).RGBA(); r != 0 || g != 0 || b != 0 {
				t.Fatalf("pixel (%d,%d) tinted at zero opacity: %d,%d,%d", x, y, r>>8, g>>8, b>>8)
			}
		}
	}

	outlined, err := RenderOverlay(src, masks, OverlayOptions{Opacity: 0, Outline: true})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if r, g, b, _ := outlined.At(10, 10).RGBA(); r == 0 && g == 0 && b == 0 {
		t.Error("Aorta boundary was not drawn")
	}
	if r, g, b, _ := outlined.At(20, 20).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("Aorta interior tinted at zero opacity: %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestRenderOverlay_Resize(t *testing.T) {
	src := createInMemoryImage(200, 100, color.White)
	masks := testMasks(t, image.Pt(200, 100))

	out, err := RenderOverlay(src, masks, OverlayOptions{MaxSize: 50})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if got := out.Bounds().Size(); got != image.Pt(50, 25) {
		t.Errorf("resized: got %v, want (50,25)", got)
	}
}

func TestRenderOverlay_SizeMismatch(t *testing.T) {
	src := createInMemoryImage(20, 20, color.White)
	masks := testMasks(t, image.Pt(10, 10))

	if _, err := RenderOverlay(src, masks, OverlayOptions{}); err == nil {
		t.Error("RenderOverlay should reject masks of a different size")
	}
}

func TestEncodeOverlay(t *testing.T) {
	src := createInMemoryImage(30, 30, color.White)
	masks := testMasks(t, image.Pt(30, 30), annotation.Shape{
		Label:  "RV Myocardium",
		Points: [][2]float64{{0, 0}, {15, 0}, {15, 15}},
	})

	res, err := EncodeOverlay(src, masks, OverlayOptions{Opacity: 0.8})
	if err != nil {
		t.Fatalf("EncodeOverlay failed: %v", err)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", res.MimeType)
	}
	if len(res.Legend) != 2 || !strings.HasSuffix(res.Legend[1], "RV Myocardium") {
		t.Errorf("Legend: got %v", res.Legend)
	}

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != res.Width || decoded.Bounds().Dy() != res.Height {
		t.Errorf("size mismatch: PNG %v, result %dx%d", decoded.Bounds(), res.Width, res.Height)
	}
}
