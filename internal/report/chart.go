package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
)

// DefaultTitle is the pie chart title used when none is configured.
const DefaultTitle = "Heart Area Breakdown"

// DefaultChartSize is the edge length of the square PNG chart.
const DefaultChartSize = 6 * vg.Inch

// arcSegmentsPerTurn controls how finely wedge arcs are approximated.
const arcSegmentsPerTurn = 360

// ChartOptions configures pie chart rendering.
type ChartOptions struct {
	// Title is drawn above the chart. Empty selects DefaultTitle.
	Title string

	// Size is the PNG edge length. Zero selects DefaultChartSize.
	Size vg.Length
}

func (o ChartOptions) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

func (o ChartOptions) size() vg.Length {
	if o.Size <= 0 {
		return DefaultChartSize
	}
	return o.Size
}

// RenderPieChart writes a PNG pie chart with one wedge per label.
//
// Wedges start at 3 o'clock and run counter-clockwise in label order. Every
// non-empty wedge carries its percentage to one decimal place; the legend
// lists every label with its percentage, including empty ones. Each call
// builds and discards its own plot, so concurrent calls never share state.
func RenderPieChart(w io.Writer, pct area.Percentages, opts ChartOptions) error {
	p, err := newPiePlot(pct, opts)
	if err != nil {
		return err
	}

	size := opts.size()
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write pie chart: %w", err)
	}
	return nil
}

func newPiePlot(pct area.Percentages, opts ChartOptions) (*plot.Plot, error) {
	if len(pct) == 0 {
		return nil, fmt.Errorf("no percentages to chart")
	}

	p := plot.New()
	p.Title.Text = opts.title()
	p.HideAxes()
	p.Legend.Top = true

	colors := imaging.Palette(len(pct))
	var (
		labelXYs  plotter.XYs
		labelText []string
	)

	start := 0.0
	for i, lp := range pct {
		if lp.Percent < 0 || math.IsNaN(lp.Percent) || math.IsInf(lp.Percent, 0) {
			return nil, fmt.Errorf("invalid percentage %v for %q", lp.Percent, lp.Label)
		}
		sweep := lp.Percent / 100 * 2 * math.Pi

		wedge, err := plotter.NewPolygon(wedgePoints(start, sweep))
		if err != nil {
			return nil, fmt.Errorf("failed to build wedge for %q: %w", lp.Label, err)
		}
		wedge.Color = colors[i]
		wedge.LineStyle.Color = color.White
		wedge.LineStyle.Width = vg.Points(1)
		p.Add(wedge)
		p.Legend.Add(fmt.Sprintf("%s (%.1f%%)", lp.Label, lp.Percent), wedge)

		if lp.Percent > 0 {
			mid := start + sweep/2
			labelXYs = append(labelXYs, plotter.XY{X: 0.6 * math.Cos(mid), Y: 0.6 * math.Sin(mid)})
			labelText = append(labelText, fmt.Sprintf("%.1f%%", lp.Percent))
		}
		start += sweep
	}

	if len(labelXYs) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labelText})
		if err != nil {
			return nil, fmt.Errorf("failed to build wedge labels: %w", err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	// Fixed ranges keep the pie circular regardless of which wedges exist.
	p.X.Min, p.X.Max = -1.1, 1.1
	p.Y.Min, p.Y.Max = -1.1, 1.1
	return p, nil
}

// wedgePoints approximates a unit-circle sector. A full turn is emitted as a
// plain circle so no seam is drawn to the center.
func wedgePoints(start, sweep float64) plotter.XYs {
	n := int(math.Ceil(sweep / (2 * math.Pi) * arcSegmentsPerTurn))
	if n < 1 {
		n = 1
	}

	full := sweep >= 2*math.Pi-1e-9
	pts := make(plotter.XYs, 0, n+2)
	if !full {
		pts = append(pts, plotter.XY{})
	}
	for k := 0; k <= n; k++ {
		a := start + sweep*float64(k)/float64(n)
		pts = append(pts, plotter.XY{X: math.Cos(a), Y: math.Sin(a)})
	}
	return pts
}

// RenderPieHTML writes an interactive HTML pie chart of the same data.
func RenderPieHTML(w io.Writer, pct area.Percentages, chartOpts ChartOptions) error {
	if len(pct) == 0 {
		return fmt.Errorf("no percentages to chart")
	}
	title := chartOpts.title()
	hex := imaging.HexPalette(len(pct))

	items := make([]opts.PieData, len(pct))
	for i, lp := range pct {
		items[i] = opts.PieData{
			Name:      lp.Label,
			Value:     math.Round(lp.Percent*100) / 100,
			ItemStyle: &opts.ItemStyle{Color: hex[i]},
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Left: "left", Top: "middle"}),
	)
	pie.AddSeries("area", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)

	if err := pie.Render(w); err != nil {
		return fmt.Errorf("failed to render HTML chart: %w", err)
	}
	return nil
}
