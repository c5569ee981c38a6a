package report

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
)

// IOError reports that a report file could not be created or written.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Output bundles everything one analysis run can write to disk. Empty paths
// are skipped.
type Output struct {
	AreasCSV       string
	PercentagesCSV string
	Chart          string
	HTML           string
	Overlay        string
}

// Write saves every configured output. overlay may be nil when no overlay
// path is set. The first failure stops the run.
func (o Output) Write(areas area.Areas, pct area.Percentages, opts ChartOptions, overlay image.Image) error {
	if o.AreasCSV != "" {
		if err := SaveAreasCSV(o.AreasCSV, areas); err != nil {
			return err
		}
	}
	if o.PercentagesCSV != "" {
		if err := SavePercentagesCSV(o.PercentagesCSV, pct); err != nil {
			return err
		}
	}
	if o.Chart != "" {
		if err := SavePieChart(o.Chart, pct, opts); err != nil {
			return err
		}
	}
	if o.HTML != "" {
		if err := SavePieHTML(o.HTML, pct, opts); err != nil {
			return err
		}
	}
	if o.Overlay != "" && overlay != nil {
		if err := SaveImage(o.Overlay, overlay); err != nil {
			return err
		}
	}
	return nil
}

// SaveAreasCSV writes the areas CSV to path.
func SaveAreasCSV(path string, areas area.Areas) error {
	return saveRendered(path, func(w io.Writer) error { return WriteAreasCSV(w, areas) })
}

// SavePercentagesCSV writes the percentages CSV to path.
func SavePercentagesCSV(path string, pct area.Percentages) error {
	return saveRendered(path, func(w io.Writer) error { return WritePercentagesCSV(w, pct) })
}

// SavePieChart writes the PNG pie chart to path.
func SavePieChart(path string, pct area.Percentages, opts ChartOptions) error {
	return saveRendered(path, func(w io.Writer) error { return RenderPieChart(w, pct, opts) })
}

// SavePieHTML writes the interactive HTML chart to path.
func SavePieHTML(path string, pct area.Percentages, opts ChartOptions) error {
	return saveRendered(path, func(w io.Writer) error { return RenderPieHTML(w, pct, opts) })
}

// SaveImage writes img to path as PNG.
func SaveImage(path string, img image.Image) error {
	return saveRendered(path, func(w io.Writer) error { return imaging.EncodePNG(w, img) })
}

// LoadAreasCSV reads an areas CSV written by SaveAreasCSV.
func LoadAreasCSV(path string) (area.Areas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	areas, err := ReadAreasCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return areas, nil
}

// saveRendered renders fully into memory before touching the file system, so
// a render failure never leaves a truncated file behind and only genuine
// file system failures surface as *IOError.
func saveRendered(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	return nil
}
