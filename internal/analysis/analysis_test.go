package analysis

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/heart-area-tools/internal/annotation"
	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
)

const aortaSquare = `{
  "version": "5.0.1",
  "shapes": [
    {"label": "Aorta", "points": [[0, 0], [10, 0], [10, 10], [0, 10]], "shape_type": "polygon"}
  ],
  "imageHeight": 100,
  "imageWidth": 100
}`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: 30})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAnalyzeReaders_AortaSquare(t *testing.T) {
	a := New(nil, 0)

	res, img, err := a.AnalyzeReaders(context.Background(), strings.NewReader(aortaSquare), bytes.NewReader(pngBytes(t, 100, 100)))
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Equal(t, area.DefaultLabels, res.Areas.Labels())

	px, ok := res.Areas.Pixels("Aorta")
	require.True(t, ok)
	assert.Equal(t, 100, px)

	for _, lp := range res.Percentages {
		if lp.Label == "Aorta" {
			assert.Equal(t, 100.0, lp.Percent)
		} else {
			assert.Equal(t, 0.0, lp.Percent, lp.Label)
		}
	}
	assert.Len(t, res.Masks, len(area.DefaultLabels))
}

func TestAnalyze_CustomLabels(t *testing.T) {
	doc := &annotation.Document{Shapes: []annotation.Shape{
		{Label: "A", Points: [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
		{Label: "B", Points: [][2]float64{{20, 20}, {30, 20}, {30, 30}, {20, 30}}},
		{Label: "C", Points: [][2]float64{{40, 40}, {50, 40}, {50, 50}, {40, 50}}},
	}}

	res, err := New([]string{"B", "A"}, time.Minute).Analyze(context.Background(), doc, image.Pt(64, 64))
	require.NoError(t, err)

	assert.Equal(t, area.Areas{{Label: "B", Pixels: 100}, {Label: "A", Pixels: 100}}, res.Areas)
	assert.Equal(t, 50.0, res.Percentages[0].Percent)
}

func TestAnalyze_Degenerate(t *testing.T) {
	doc := &annotation.Document{Shapes: []annotation.Shape{
		{Label: "Unrelated", Points: [][2]float64{{0, 0}, {10, 0}, {10, 10}}},
	}}

	_, err := New(nil, 0).Analyze(context.Background(), doc, image.Pt(20, 20))
	assert.True(t, errors.Is(err, area.ErrDegenerateInput), "got %v", err)
}

func TestAnalyze_BudgetExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	doc := &annotation.Document{Shapes: []annotation.Shape{
		{Label: "Aorta", Points: [][2]float64{{0, 0}, {10, 0}, {10, 10}}},
	}}

	_, err := New(nil, time.Second).Analyze(ctx, doc, image.Pt(20, 20))
	assert.True(t, errors.Is(err, ErrBudgetExceeded), "got %v", err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAnalyzeReaders_Errors(t *testing.T) {
	a := New(nil, 0)
	ctx := context.Background()

	_, _, err := a.AnalyzeReaders(ctx, strings.NewReader("{not json"), bytes.NewReader(pngBytes(t, 10, 10)))
	var pe *annotation.ParseError
	assert.True(t, errors.As(err, &pe), "want ParseError, got %v", err)

	_, _, err = a.AnalyzeReaders(ctx, strings.NewReader(aortaSquare), strings.NewReader("not an image"))
	var de *imaging.DecodeError
	assert.True(t, errors.As(err, &de), "want DecodeError, got %v", err)
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "pt.json")
	imgPath := filepath.Join(dir, "pt.png")
	require.NoError(t, os.WriteFile(jsonPath, []byte(aortaSquare), 0644))
	require.NoError(t, os.WriteFile(imgPath, pngBytes(t, 100, 100), 0644))

	cache := imaging.NewImageCache()
	for _, c := range []*imaging.ImageCache{nil, cache} {
		res, _, err := New(nil, 0).AnalyzeFiles(context.Background(), c, jsonPath, imgPath)
		require.NoError(t, err)
		px, _ := res.Areas.Pixels("Aorta")
		assert.Equal(t, 100, px)
	}
	assert.Equal(t, 1, cache.Len())

	_, _, err := New(nil, 0).AnalyzeFiles(context.Background(), nil, filepath.Join(dir, "missing.json"), imgPath)
	assert.Error(t, err)
}
