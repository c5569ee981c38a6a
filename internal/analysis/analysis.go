// Package analysis runs the full area pipeline: annotation and image in,
// per-label areas and percentages out.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/ironsheep/heart-area-tools/internal/annotation"
	"github.com/ironsheep/heart-area-tools/internal/area"
	"github.com/ironsheep/heart-area-tools/internal/imaging"
)

// ErrBudgetExceeded is returned when a run outlives its execution budget.
var ErrBudgetExceeded = errors.New("analysis exceeded its execution budget")

// Result is the outcome of one analysis run.
type Result struct {
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Areas       area.Areas       `json:"areas"`
	Percentages area.Percentages `json:"percentages"`

	// Masks holds the composed mask per label for overlay rendering.
	Masks []area.LabelMask `json:"-"`
}

// Analyzer computes area breakdowns for one label set.
//
// An Analyzer holds no per-run state and may be shared between goroutines.
type Analyzer struct {
	// Labels is the ordered label set. Empty selects area.DefaultLabels.
	Labels []string

	// Budget bounds a single run. Zero means no limit beyond the caller's
	// context.
	Budget time.Duration
}

// New returns an Analyzer for labels with the given budget.
func New(labels []string, budget time.Duration) *Analyzer {
	return &Analyzer{Labels: labels, Budget: budget}
}

func (a *Analyzer) labels() []string {
	if len(a.Labels) == 0 {
		return area.DefaultLabels
	}
	return a.Labels
}

// Analyze rasterizes doc onto a size canvas and computes areas and
// percentages. A total area of zero fails with *area.DegenerateInputError.
func (a *Analyzer) Analyze(ctx context.Context, doc *annotation.Document, size image.Point) (*Result, error) {
	if a.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Budget)
		defer cancel()
	}

	masks, err := area.AggregateMasks(ctx, doc, size, a.labels())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrBudgetExceeded, err)
		}
		return nil, err
	}

	areas := area.AreasOf(masks)
	pct, err := area.ComputePercentages(areas)
	if err != nil {
		return nil, err
	}

	return &Result{
		Width:       size.X,
		Height:      size.Y,
		Areas:       areas,
		Percentages: pct,
		Masks:       masks,
	}, nil
}

// AnalyzeReaders parses the annotation and decodes the image, then runs
// Analyze. The image is returned alongside the result so callers can render
// an overlay without decoding twice.
func (a *Analyzer) AnalyzeReaders(ctx context.Context, annotationR, imageR io.Reader) (*Result, image.Image, error) {
	doc, err := annotation.Parse(annotationR)
	if err != nil {
		return nil, nil, err
	}
	img, err := imaging.Decode(imageR)
	if err != nil {
		return nil, nil, err
	}
	res, err := a.Analyze(ctx, doc, imaging.Size(img))
	if err != nil {
		return nil, nil, err
	}
	return res, img, nil
}

// AnalyzeFiles is AnalyzeReaders over file paths. The image is read
// through cache when one is given.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, cache *imaging.ImageCache, annotationPath, imagePath string) (*Result, image.Image, error) {
	doc, err := annotation.LoadFile(annotationPath)
	if err != nil {
		return nil, nil, err
	}

	var img image.Image
	if cache != nil {
		img, err = cache.Load(imagePath)
	} else {
		img, err = imaging.LoadFile(imagePath)
	}
	if err != nil {
		return nil, nil, err
	}

	res, err := a.Analyze(ctx, doc, imaging.Size(img))
	if err != nil {
		return nil, nil, err
	}
	return res, img, nil
}
