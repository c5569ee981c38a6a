// Command area-report computes per-label areas for one annotated image and
// writes the areas CSV, percentages CSV and pie chart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ironsheep/heart-area-tools/internal/analysis"
	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/config"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
	"github.com/ironsheep/heart-area-tools/internal/report"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("area-report: %v", err)
	}
}

// run parses args, computes the breakdown and writes every configured output.
// Outputs are only written once percentages have been computed, so a failed
// run leaves no partial report behind.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("area-report", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "YAML configuration file (defaults apply when missing)")
		writeConfig = fs.String("write-config", "", "write the effective configuration to this path and exit")
		annPath     = fs.String("annotation", "", "annotation JSON file (default from config: pt_3.json)")
		imgPath     = fs.String("image", "", "annotated image file (default from config: pt_3.png)")
		areasOut    = fs.String("areas", "", "areas CSV output path")
		pctOut      = fs.String("percentages", "", "percentages CSV output path")
		chartOut    = fs.String("chart", "", "pie chart PNG output path")
		htmlOut     = fs.String("html", "", "interactive HTML chart output path")
		overlayOut  = fs.String("overlay", "", "mask overlay PNG output path")
		areasIn     = fs.String("areas-in", "", "re-render from an existing areas CSV instead of an annotation")
		title       = fs.String("title", "", "pie chart title")
		labels      = fs.String("labels", "", "comma-separated label set, in output order")
		version     = fs.Bool("version", false, "print version information")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintf(stdout, "area-report %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	override(&cfg.Batch.Annotation, *annPath)
	override(&cfg.Batch.Image, *imgPath)
	override(&cfg.Batch.AreasCSV, *areasOut)
	override(&cfg.Batch.PercentagesCSV, *pctOut)
	override(&cfg.Batch.Chart, *chartOut)
	override(&cfg.Batch.HTML, *htmlOut)
	override(&cfg.Batch.Overlay, *overlayOut)
	override(&cfg.Chart.Title, *title)
	if *labels != "" {
		cfg.Labels = splitLabels(*labels)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *writeConfig != "" {
		return config.SaveConfig(cfg, *writeConfig)
	}

	debugf("config: %+v", cfg)

	var (
		areas   area.Areas
		pct     area.Percentages
		overlay image.Image
	)
	out := cfg.Output()

	if *areasIn != "" {
		areas, err = report.LoadAreasCSV(*areasIn)
		if err != nil {
			return err
		}
		if pct, err = area.ComputePercentages(areas); err != nil {
			return err
		}
		// Inputs are not re-written and no image is available for an overlay.
		out.AreasCSV = ""
		if out.Overlay != "" {
			log.Printf("overlay %s skipped: no image when reading %s", out.Overlay, *areasIn)
			out.Overlay = ""
		}
	} else {
		an := analysis.New(cfg.Labels, 0)
		res, img, err := an.AnalyzeFiles(ctx, nil, cfg.Batch.Annotation, cfg.Batch.Image)
		if err != nil {
			return err
		}
		areas, pct = res.Areas, res.Percentages

		if out.Overlay != "" {
			overlay, err = imaging.RenderOverlay(img, res.Masks, cfg.OverlayOptions())
			if err != nil {
				return err
			}
		}
	}

	if err := out.Write(areas, pct, cfg.ChartOptions(), overlay); err != nil {
		return err
	}

	printSummary(stdout, areas, pct)
	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitLabels(s string) []string {
	var labels []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

func printSummary(w io.Writer, areas area.Areas, pct area.Percentages) {
	for i, la := range areas {
		fmt.Fprintf(w, "%-24s %8d px %6.1f%%\n", la.Label, la.Pixels, pct[i].Percent)
	}
}

func debugf(format string, args ...interface{}) {
	if os.Getenv("AREA_LOG_LEVEL") == "debug" {
		log.Printf(format, args...)
	}
}
